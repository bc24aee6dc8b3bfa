// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	FFmpegCommand = "ffmpeg"

	// ProbeTimeout bounds the -version probe so a wedged binary cannot
	// stall startup.
	ProbeTimeout = 10 * time.Second
)

// ErrToolUnavailable means no runnable ffmpeg was found; merging must stay
// disabled until a resolve succeeds.
var ErrToolUnavailable = errors.New("ffmpeg is not available")

// Resolution is the outcome of locating the external ffmpeg binary.
type Resolution struct {
	Available  bool
	Descriptor string
	Path       string
}

// bundledPath locates the bundled binary; a variable so tests can plant a
// fake at a controlled location.
var bundledPath = BundledFFmpegPath

// BundledFFmpegPath returns the path where a bundled ffmpeg would live,
// relative to the running executable.
func BundledFFmpegPath() (string, error) {
	self, err := os.Executable()
	if err != nil {
		return "", err
	}
	name := FFmpegCommand
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(self), "ffmpeg", "bin", name), nil
}

// ResolveFFmpeg locates a runnable ffmpeg, preferring a bundled copy next to
// the executable over one on PATH. Both candidates are verified with a
// -version probe before being reported as usable.
func ResolveFFmpeg() Resolution {
	if bundled, err := bundledPath(); err == nil {
		if _, err := os.Stat(bundled); err == nil {
			if desc, err := probe(bundled); err == nil {
				return Resolution{Available: true, Descriptor: "bundled ffmpeg: " + desc, Path: bundled}
			}
		}
	}

	system, err := exec.LookPath(FFmpegCommand)
	if err != nil {
		return Resolution{Descriptor: "ffmpeg binary not found"}
	}
	desc, err := probe(system)
	if err != nil {
		return Resolution{Descriptor: fmt.Sprintf("ffmpeg found but not runnable: %v", err)}
	}
	return Resolution{Available: true, Descriptor: "system ffmpeg: " + desc, Path: system}
}

// ResolveExplicit probes a caller-supplied binary path, bypassing the
// bundled/PATH search.
func ResolveExplicit(path string) Resolution {
	desc, err := probe(path)
	if err != nil {
		return Resolution{Descriptor: fmt.Sprintf("%s is not runnable: %v", path, err)}
	}
	return Resolution{Available: true, Descriptor: desc, Path: path}
}

func probe(path string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), ProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("version probe timed out after %s", ProbeTimeout)
	}
	if err != nil {
		return "", err
	}

	line, _, _ := strings.Cut(string(out), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		line = path
	}
	return line, nil
}
