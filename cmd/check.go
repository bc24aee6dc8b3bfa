// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cmd

import (
	"fmt"

	"campan/panorama-combiner/lib"

	"github.com/spf13/cobra"
)

var checkFFmpegPath string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that ffmpeg is available for merging",
	RunE: func(cmd *cobra.Command, args []string) error {
		res := resolveFFmpeg(checkFFmpegPath)
		if !res.Available {
			return fmt.Errorf("%w: %s", lib.ErrToolUnavailable, res.Descriptor)
		}
		fmt.Println(res.Descriptor)
		return nil
	},
}

// resolveFFmpeg honors an explicit binary path and falls back to the
// bundled-then-PATH search otherwise.
func resolveFFmpeg(explicit string) lib.Resolution {
	if explicit != "" {
		return lib.ResolveExplicit(explicit)
	}
	return lib.ResolveFFmpeg()
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFFmpegPath, "ffmpeg", "", "Explicit path to the ffmpeg binary")
}
