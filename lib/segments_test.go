// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	lines []string
}

func (r *recordingReporter) Logf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Warnf(format string, args ...any) {
	r.lines = append(r.lines, "warning: "+fmt.Sprintf(format, args...))
}

func (r *recordingReporter) joined() string {
	return strings.Join(r.lines, "\n")
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("RecM01_20240315_143022.mp4")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 14, 30, 22, 0, time.UTC), ts)
}

func TestParseTimestampRejects(t *testing.T) {
	cases := []string{
		"notes.txt",
		"RecM01_2024_143022.mp4",      // date token too short
		"RecM01_20241301_000000.mp4",  // month 13
		"RecM01_20240230_120000.mp4",  // February 30th
		"holiday_20240315_143022.mp4", // wrong prefix
		"RecM_20240315_143022.mp4",    // missing camera number
	}
	for _, name := range cases {
		_, err := ParseTimestamp(name)
		assert.Error(t, err, name)
	}
}

func TestCollectSegmentsSortsChronologically(t *testing.T) {
	reporter := &recordingReporter{}
	segments, err := CollectSegments([]string{
		"/videos/RecM01_20240101_090000.mp4",
		"/videos/RecM02_20240101_091500.mp4",
		"/videos/RecM03_20240101_083000.mov",
	}, reporter)
	require.NoError(t, err)

	require.Len(t, segments, 3)
	assert.Equal(t, "RecM03_20240101_083000.mov", segments[0].Filename)
	assert.Equal(t, "RecM01_20240101_090000.mp4", segments[1].Filename)
	assert.Equal(t, "RecM02_20240101_091500.mp4", segments[2].Filename)

	for i := 1; i < len(segments); i++ {
		assert.False(t, segments[i].Timestamp.Before(segments[i-1].Timestamp))
	}
}

func TestCollectSegmentsIdempotentOnSortedInput(t *testing.T) {
	sorted := []string{
		"/v/RecM01_20240101_080000.mp4",
		"/v/RecM01_20240101_090000.mp4",
		"/v/RecM01_20240101_100000.mp4",
	}
	segments, err := CollectSegments(sorted, Discard)
	require.NoError(t, err)
	assert.Equal(t, sorted, SegmentPaths(segments))
}

func TestCollectSegmentsTieBreakKeepsDiscoveryOrder(t *testing.T) {
	// Same capture timestamp from two cameras; stable sort must keep the
	// order the files were discovered in.
	segments, err := CollectSegments([]string{
		"/v/RecM07_20240101_120000.mp4",
		"/v/RecM02_20240101_120000.mp4",
	}, Discard)
	require.NoError(t, err)
	assert.Equal(t, "RecM07_20240101_120000.mp4", segments[0].Filename)
	assert.Equal(t, "RecM02_20240101_120000.mp4", segments[1].Filename)
}

func TestCollectSegmentsSkipsUnparsable(t *testing.T) {
	reporter := &recordingReporter{}
	segments, err := CollectSegments([]string{
		"/v/RecM01_20240101_090000.mp4",
		"/v/RecM01_20241301_000000.mp4",
	}, reporter)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Contains(t, reporter.joined(), "RecM01_20241301_000000.mp4")
}

func TestCollectSegmentsAllUnparsable(t *testing.T) {
	_, err := CollectSegments([]string{"/v/RecM01_bad.mp4"}, Discard)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestDiscoverDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "RecM01_20240101_090000.mp4")
	touch(t, dir, "RecM02_20240101_091500.MP4")
	touch(t, dir, "RecM03_20240101_083000.mov")
	touch(t, dir, "notes.txt")
	touch(t, dir, "holiday.mp4")

	found, err := DiscoverDirectory(dir, Discard)
	require.NoError(t, err)

	require.Len(t, found, 3)
	seen := map[string]bool{}
	for _, p := range found {
		assert.False(t, seen[p], "duplicate path %s", p)
		seen[p] = true
		assert.True(t, strings.HasPrefix(filepath.Base(p), SegmentPrefix))
	}
}

func TestDiscoverDirectoryMissing(t *testing.T) {
	_, err := DiscoverDirectory(filepath.Join(t.TempDir(), "nope"), Discard)
	assert.Error(t, err)
}

func TestDiscoverDirectoryEmpty(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "notes.txt")

	_, err := DiscoverDirectory(dir, Discard)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestFilterExplicitPartitions(t *testing.T) {
	reporter := &recordingReporter{}
	valid, err := FilterExplicit([]string{
		"/v/RecM01_20240101_090000.mp4",
		"/v/vacation.mp4",
		"/v/RecM05_20240101_100000.avi",
	}, reporter)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/v/RecM01_20240101_090000.mp4",
		"/v/RecM05_20240101_100000.avi",
	}, valid)
	assert.Contains(t, reporter.joined(), "vacation.mp4")
}

func TestFilterExplicitAllRejected(t *testing.T) {
	_, err := FilterExplicit([]string{"/v/a.mp4", "/v/b.mp4"}, Discard)
	assert.ErrorIs(t, err, ErrNoInput)
}
