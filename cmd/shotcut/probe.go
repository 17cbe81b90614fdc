package main

import (
	"fmt"
	"strings"

	"github.com/keagan/shotcut/internal/config"
	"github.com/keagan/shotcut/internal/pipeline"
	"github.com/keagan/shotcut/internal/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var probeFormat string

var probeCmd = &cobra.Command{
	Use:   "probe [input video]",
	Short: "Show video metadata, including the frame count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := pipeline.New(log.Logger, cfg).FFmpeg()
		if err != nil {
			return err
		}

		info, err := exec.ProbeVideo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if strings.EqualFold(probeFormat, ui.FormatTable) {
			fmt.Fprintln(cmd.OutOrStdout(), ui.DisplayVideoInfo(info))
			return nil
		}
		return ui.Encode(cmd.OutOrStdout(), info, probeFormat)
	},
}

func init() {
	probeCmd.Flags().StringVarP(&probeFormat, "format", "f", ui.FormatTable, "output format: table, json or yaml")
}
