// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	// SegmentPrefix is the camera's fixed filename prefix for panorama
	// segment recordings.
	SegmentPrefix = "RecM0"

	timestampLayout = "20060102_150405"
)

// segmentGlobs covers the accepted container extensions in both case
// variants, mirroring what the camera firmware is known to produce.
var segmentGlobs = []string{"*.mp4", "*.MP4", "*.avi", "*.AVI", "*.mov", "*.MOV"}

// timestampPattern extracts the capture date and time embedded in a segment
// filename, e.g. RecM01_20240315_143022.mp4.
var timestampPattern = regexp.MustCompile(SegmentPrefix + `\d+_(\d{8})_(\d{6})`)

// ErrNoInput means discovery produced no usable segment files.
var ErrNoInput = errors.New("no usable segment files found")

// Segment is one input video file with the capture timestamp parsed from its
// name. Only segments that parsed successfully take part in a merge.
type Segment struct {
	Path      string
	Filename  string
	Timestamp time.Time
}

// ParseTimestamp extracts the capture timestamp from a segment filename.
// Calendar validation comes from time.Parse, so an impossible date like
// month 13 fails the same way as a non-matching name.
func ParseTimestamp(filename string) (time.Time, error) {
	m := timestampPattern.FindStringSubmatch(filename)
	if m == nil {
		return time.Time{}, fmt.Errorf("filename %q does not match %s<n>_YYYYMMDD_HHMMSS", filename, SegmentPrefix)
	}
	ts, err := time.Parse(timestampLayout, m[1]+"_"+m[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("filename %q has invalid timestamp: %w", filename, err)
	}
	return ts, nil
}

// DiscoverDirectory enumerates segment candidates in dir: files starting with
// the segment prefix and carrying one of the accepted extensions. A file
// matched by more than one case-variant glob is counted once. The result is
// sorted so discovery order is deterministic.
func DiscoverDirectory(dir string, reporter Reporter) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("input folder not accessible: %w", err)
	}

	var found []string
	for _, glob := range segmentGlobs {
		matches, err := filepath.Glob(filepath.Join(dir, SegmentPrefix+glob))
		if err != nil {
			return nil, err
		}
		found = append(found, matches...)
	}

	found = lo.Uniq(found)
	sort.Strings(found)

	if len(found) == 0 {
		return nil, fmt.Errorf("%w: nothing starting with %q in %s", ErrNoInput, SegmentPrefix, dir)
	}
	reporter.Logf("found %d unique segment files in %s", len(found), dir)
	return found, nil
}

// FilterExplicit keeps the user-supplied paths whose filename starts with the
// segment prefix. Rejected files are reported and dropped, never fatal.
func FilterExplicit(paths []string, reporter Reporter) ([]string, error) {
	valid, rejected := lo.FilterReject(paths, func(p string, _ int) bool {
		return strings.HasPrefix(filepath.Base(p), SegmentPrefix)
	})

	for _, p := range rejected {
		reporter.Warnf("ignoring %s: name does not start with %q", filepath.Base(p), SegmentPrefix)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: none of the selected files start with %q", ErrNoInput, SegmentPrefix)
	}
	reporter.Logf("processing %d selected segment files", len(valid))
	return valid, nil
}

// CollectSegments parses timestamps for the surviving paths. Files whose name
// cannot be parsed are reported and skipped; the rest come back sorted oldest
// first. Equal timestamps keep their discovery order.
func CollectSegments(paths []string, reporter Reporter) ([]Segment, error) {
	segments := make([]Segment, 0, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		ts, err := ParseTimestamp(name)
		if err != nil {
			reporter.Warnf("skipping %s: %v", name, err)
			continue
		}
		segments = append(segments, Segment{Path: p, Filename: name, Timestamp: ts})
		reporter.Logf("parsed %s -> %s", name, ts.Format("2006-01-02 15:04:05"))
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no file had a valid timestamp", ErrNoInput)
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Timestamp.Before(segments[j].Timestamp)
	})

	reporter.Logf("sorted %d segments chronologically", len(segments))
	for i, s := range segments {
		reporter.Logf("  %d. %s", i+1, s.Filename)
	}
	return segments, nil
}

// SegmentPaths returns the segment paths in their current order.
func SegmentPaths(segments []Segment) []string {
	return lo.Map(segments, func(s Segment, _ int) string { return s.Path })
}
