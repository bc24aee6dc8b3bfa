// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type Settings struct {
	OutputPath     string `json:"outputPath"`
	FFmpegPath     string `json:"ffmpegPath"`
	TimeoutMinutes int    `json:"timeoutMinutes"`
	Notifications  bool   `json:"notifications"`
}

func loadSettings() (*Settings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(homeDir, ".config", "panorama-combiner", "settings.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, nil
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}
