// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"campan/panorama-combiner/lib"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	inputDir        string
	inputFiles      []string
	outputDir       string
	ffmpegPath      string
	mergeTimeout    time.Duration
	assumeYes       bool
	noNotifications bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge segment recordings into Panorama.mp4",
	RunE: func(cmd *cobra.Command, args []string) error {
		res := resolveFFmpeg(ffmpegPath)
		if !res.Available {
			return fmt.Errorf("%w: %s", lib.ErrToolUnavailable, res.Descriptor)
		}
		log.Info().Msg(res.Descriptor)

		job := lib.NewJob(lib.JobOptions{
			InputDir:         inputDir,
			InputFiles:       inputFiles,
			OutputDir:        outputDir,
			FFmpegPath:       res.Path,
			Timeout:          mergeTimeout,
			ConfirmOverwrite: confirmOverwrite,
			Reporter: lib.FuncReporter(func(line string) {
				if strings.HasPrefix(line, "warning: ") {
					log.Warn().Msg(strings.TrimPrefix(line, "warning: "))
					return
				}
				log.Info().Msg(line)
			}),
		})
		log.Debug().Str("job", job.ID).Msg("starting merge job")

		var runner lib.Runner
		done, err := runner.Start(job)
		if err != nil {
			return err
		}

		err = waitWithSpinner(done)
		switch {
		case err == nil:
			notify(true, "Output saved to "+job.OutputPath())
			return nil
		case errors.Is(err, lib.ErrOverwriteDeclined):
			log.Info().Msg("merge cancelled")
			return nil
		default:
			notify(false, err.Error())
			return err
		}
	},
}

type mergeDefaults struct {
	output        string
	ffmpeg        string
	timeout       time.Duration
	notifications bool
}

func getMergeDefaults() mergeDefaults {
	defaults := mergeDefaults{
		timeout:       lib.DefaultMergeTimeout,
		notifications: true,
	}

	settings, err := loadSettings()
	if err != nil || settings == nil {
		return defaults
	}

	if settings.OutputPath != "" {
		defaults.output = settings.OutputPath
	}
	if settings.FFmpegPath != "" {
		defaults.ffmpeg = settings.FFmpegPath
	}
	if settings.TimeoutMinutes != 0 {
		defaults.timeout = time.Duration(settings.TimeoutMinutes) * time.Minute
	}
	defaults.notifications = settings.Notifications

	return defaults
}

// waitWithSpinner blocks on the worker's result while rendering an
// indeterminate spinner, keeping the terminal alive during long merges.
func waitWithSpinner(done <-chan error) error {
	spinner := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("merging"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stdout),
	)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			spinner.Finish()
			fmt.Println()
			return err
		case <-ticker.C:
			spinner.Add(1)
		}
	}
}

func confirmOverwrite(path string) bool {
	if assumeYes {
		return true
	}
	fmt.Printf("%s already exists. Overwrite? [y/N] ", path)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func notify(success bool, detail string) {
	if noNotifications {
		return
	}
	if err := lib.NotifyResult(success, detail); err != nil {
		log.Debug().Err(err).Msg("desktop notification not delivered")
	}
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	defaults := getMergeDefaults()

	mergeCmd.Flags().StringVarP(&inputDir, "dir", "d", "", "Folder containing the segment recordings")
	mergeCmd.Flags().StringArrayVarP(&inputFiles, "file", "f", nil, "Specific segment file (repeatable)")
	mergeCmd.Flags().StringVarP(&outputDir, "out", "o", defaults.output, "Folder to write Panorama.mp4 into")
	mergeCmd.Flags().StringVar(&ffmpegPath, "ffmpeg", defaults.ffmpeg, "Explicit path to the ffmpeg binary")
	mergeCmd.Flags().DurationVar(&mergeTimeout, "timeout", defaults.timeout, "Abort the ffmpeg run after this duration")
	mergeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Overwrite an existing Panorama.mp4 without asking")
	mergeCmd.Flags().BoolVar(&noNotifications, "no-notifications", !defaults.notifications, "Disable desktop notifications")

	mergeCmd.MarkFlagsOneRequired("dir", "file")
	mergeCmd.MarkFlagsMutuallyExclusive("dir", "file")
	if defaults.output == "" {
		mergeCmd.MarkFlagRequired("out")
	}
}
