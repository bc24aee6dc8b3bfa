// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"fmt"
	"os"
	"strings"
)

// EscapeConcatPath escapes a path for an ffmpeg concat list entry.
// Backslashes are doubled before quotes are escaped, so the backslash
// introduced for a quote is not escaped again.
func EscapeConcatPath(path string) string {
	path = strings.ReplaceAll(path, `\`, `\\`)
	path = strings.ReplaceAll(path, `'`, `\'`)
	return path
}

// WritePlaylist materializes the ordered segment paths as a temporary concat
// demuxer list, one "file '<path>'" line per segment. The caller owns the
// returned file and must remove it when the merge is done.
func WritePlaylist(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("no segments to list")
	}

	f, err := os.CreateTemp("", "panorama-concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create concat list: %w", err)
	}

	for _, p := range paths {
		if _, err := fmt.Fprintf(f, "file '%s'\n", EscapeConcatPath(p)); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("failed to write concat list: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
