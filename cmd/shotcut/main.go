package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/keagan/shotcut/internal/config"
	"github.com/keagan/shotcut/internal/logging"
	"github.com/keagan/shotcut/internal/ui"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	logJSON bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("❌ "+err.Error()))
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "shotcut",
	Short:         "shotcut - shot boundary detection for video",
	Long:          "Finds hard cuts and gradual transitions in a video or image sequence from intensity histograms, and splits the input into shots.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(logging.Options{Verbose: verbose, JSON: logJSON})

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger := logging.WithComponent("cli")
		logger.Debug().
			Str("config", cfgFile).
			Int("tolerance", cfg.Detect.Tolerance).
			Int("resize_width", cfg.Frames.ResizeWidth).
			Msg("configuration loaded")

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./shotcut.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON lines")

	rootCmd.AddCommand(newDetectCmd())
	rootCmd.AddCommand(newSplitCmd())
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
