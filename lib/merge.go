// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultMergeTimeout bounds the ffmpeg invocation. Stream copy is fast but
// not instant on long panoramas, so this is deliberately generous.
const DefaultMergeTimeout = 30 * time.Minute

// MergeSegments concatenates the ordered segment paths into outputPath using
// ffmpeg's concat demuxer in stream-copy mode. The binary is re-probed before
// committing, and the temporary concat list is removed on every exit path.
func MergeSegments(paths []string, outputPath, ffmpegPath string, timeout time.Duration, reporter Reporter) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: merge invoked with empty segment list", ErrNoInput)
	}
	if timeout <= 0 {
		timeout = DefaultMergeTimeout
	}

	res := ResolveExplicit(ffmpegPath)
	if !res.Available {
		return fmt.Errorf("%w: %s", ErrToolUnavailable, res.Descriptor)
	}
	reporter.Logf("using ffmpeg at %s", res.Path)

	listPath, err := WritePlaylist(paths)
	if err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(listPath); err != nil {
			reporter.Warnf("could not remove concat list %s: %v", listPath, err)
		}
	}()
	reporter.Logf("created concat list with %d segments", len(paths))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, res.Path,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		"-y",
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	reporter.Logf("running: %s", strings.Join(cmd.Args, " "))
	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("ffmpeg timed out after %s\n%s", timeout, stderr.String())
	}
	if err != nil {
		return fmt.Errorf("ffmpeg merge failed: %w\n%s", err, stderr.String())
	}

	logStreamSummary(stderr.String(), reporter)
	return nil
}

// logStreamSummary surfaces the informative lines of ffmpeg's stderr
// (durations, stream mappings) without echoing progress noise.
func logStreamSummary(diagnostics string, reporter Reporter) {
	for _, line := range strings.Split(diagnostics, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Duration:") || strings.HasPrefix(line, "Stream ") || strings.HasPrefix(line, "Output ") {
			reporter.Logf("ffmpeg: %s", line)
		}
	}
}
