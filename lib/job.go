// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// OutputFilename is the fixed name of the merged panorama inside the chosen
// output folder.
const OutputFilename = "Panorama.mp4"

var (
	ErrOutputDirInvalid  = errors.New("output folder does not exist")
	ErrOverwriteDeclined = errors.New("merge cancelled, existing output kept")
	ErrMergeInFlight     = errors.New("a merge is already running")
)

// Status tracks a merge job through its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// JobOptions describes one user-triggered merge. Exactly one of InputDir and
// InputFiles must be set.
type JobOptions struct {
	InputDir   string
	InputFiles []string
	OutputDir  string

	// FFmpegPath is the resolved binary to invoke. Callers obtain it from
	// ResolveFFmpeg (or ResolveExplicit) before constructing the job.
	FFmpegPath string

	Timeout time.Duration

	// ConfirmOverwrite is consulted when the output file already exists.
	// Nil means never overwrite.
	ConfirmOverwrite func(path string) bool

	Reporter Reporter
}

// MergeJob is one merge invocation. Its status is written only by the worker
// running the job and may be read concurrently for display.
type MergeJob struct {
	ID   string
	opts JobOptions

	mu         sync.Mutex
	status     Status
	outputPath string
}

// NewJob builds a pending job from opts.
func NewJob(opts JobOptions) *MergeJob {
	if opts.Reporter == nil {
		opts.Reporter = Discard
	}
	return &MergeJob{
		ID:     uuid.NewString(),
		opts:   opts,
		status: StatusPending,
	}
}

func (j *MergeJob) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

func (j *MergeJob) setStatus(s Status) {
	j.mu.Lock()
	j.status = s
	j.mu.Unlock()
}

// OutputPath returns the merged file's destination, once computed.
func (j *MergeJob) OutputPath() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.outputPath
}

// Run executes the whole pipeline synchronously: validate, discover, parse,
// sort, confirm overwrite, merge. A declined overwrite returns
// ErrOverwriteDeclined and leaves the job pending rather than failed.
func (j *MergeJob) Run() (err error) {
	reporter := j.opts.Reporter

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
		switch {
		case err == nil:
			j.setStatus(StatusSucceeded)
		case errors.Is(err, ErrOverwriteDeclined):
			j.setStatus(StatusPending)
		default:
			j.setStatus(StatusFailed)
		}
	}()

	j.setStatus(StatusRunning)

	if _, statErr := os.Stat(j.opts.OutputDir); statErr != nil {
		return fmt.Errorf("%w: %s", ErrOutputDirInvalid, j.opts.OutputDir)
	}

	paths, err := j.discover(reporter)
	if err != nil {
		return err
	}

	segments, err := CollectSegments(paths, reporter)
	if err != nil {
		return err
	}

	outputPath := filepath.Join(j.opts.OutputDir, OutputFilename)
	j.mu.Lock()
	j.outputPath = outputPath
	j.mu.Unlock()

	if _, statErr := os.Stat(outputPath); statErr == nil {
		if j.opts.ConfirmOverwrite == nil || !j.opts.ConfirmOverwrite(outputPath) {
			reporter.Logf("merge cancelled: %s already exists", OutputFilename)
			return ErrOverwriteDeclined
		}
	}

	if err := MergeSegments(SegmentPaths(segments), outputPath, j.opts.FFmpegPath, j.opts.Timeout, reporter); err != nil {
		return err
	}

	reporter.Logf("merge complete, output saved to %s", outputPath)
	return nil
}

func (j *MergeJob) discover(reporter Reporter) ([]string, error) {
	switch {
	case j.opts.InputDir != "" && len(j.opts.InputFiles) > 0:
		return nil, fmt.Errorf("input folder and explicit files are mutually exclusive")
	case j.opts.InputDir != "":
		return DiscoverDirectory(j.opts.InputDir, reporter)
	case len(j.opts.InputFiles) > 0:
		return FilterExplicit(j.opts.InputFiles, reporter)
	default:
		return nil, fmt.Errorf("%w: no input folder or files given", ErrNoInput)
	}
}

// Runner enforces the single-in-flight constraint and runs jobs on a
// background worker so the caller's surface stays responsive.
type Runner struct {
	mu   sync.Mutex
	busy bool
}

// Start launches job on a worker goroutine. The returned channel delivers the
// job's result exactly once. A second Start while a job is running fails with
// ErrMergeInFlight.
func (r *Runner) Start(job *MergeJob) (<-chan error, error) {
	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return nil, ErrMergeInFlight
	}
	r.busy = true
	r.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		err := job.Run()
		r.mu.Lock()
		r.busy = false
		r.mu.Unlock()
		done <- err
	}()
	return done, nil
}

// Busy reports whether a job is currently running.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}
