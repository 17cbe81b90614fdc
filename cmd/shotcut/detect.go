package main

import (
	"context"
	"fmt"
	"os"

	"github.com/keagan/shotcut/internal/clips"
	"github.com/keagan/shotcut/internal/config"
	"github.com/keagan/shotcut/internal/ffmpeg"
	"github.com/keagan/shotcut/internal/pipeline"
	"github.com/keagan/shotcut/internal/ui"
	"github.com/keagan/shotcut/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// analysisFlags are shared by detect and split.
type analysisFlags struct {
	start       string
	end         string
	tolerance   int
	workers     int
	fps         float64
	interactive bool
	noProgress  bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "0", "first frame, as a frame number or timestamp (e.g. 00:01:05.2)")
	cmd.Flags().StringVar(&f.end, "end", "", "frame to stop before, as a frame number or timestamp (default: end of input)")
	cmd.Flags().IntVar(&f.tolerance, "tor", 0, "sub-threshold frames that close a gradual transition (default from config)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel histogram workers (default from config, 0 = all CPUs)")
	cmd.Flags().Float64Var(&f.fps, "fps", 0, "frame rate for image sequences")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "prompt for the analysis window")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "hide the progress bar")
}

// options turns the flags into pipeline options for in.
func (f *analysisFlags) options(in *pipeline.Input, cfg *config.Config) (pipeline.AnalyzeOptions, error) {
	opts := pipeline.AnalyzeOptions{
		Tolerance: f.tolerance,
		Workers:   f.workers,
	}

	start, err := util.ParsePosition(f.start, in.FPS)
	if err != nil {
		return opts, fmt.Errorf("invalid --start: %w", err)
	}
	opts.Start = start

	if f.end != "" {
		end, err := util.ParsePosition(f.end, in.FPS)
		if err != nil {
			return opts, fmt.Errorf("invalid --end: %w", err)
		}
		opts.End = end
	}

	if f.interactive {
		return promptOptions(ui.Terminal{}, in, cfg, opts)
	}
	return opts, nil
}

// promptOptions asks for the window and tolerance, offering the flag values
// as defaults.
func promptOptions(p ui.Prompter, in *pipeline.Input, cfg *config.Config, opts pipeline.AnalyzeOptions) (pipeline.AnalyzeOptions, error) {
	last := in.Frames
	end := opts.End
	if end == 0 {
		end = last
	}
	tolerance := opts.Tolerance
	if tolerance == 0 {
		tolerance = cfg.Detect.Tolerance
	}

	var err error
	if opts.Start, err = p.Int("Start frame", opts.Start, 0, last-1); err != nil {
		return opts, err
	}
	if opts.End, err = p.Int("End frame (exclusive)", end, opts.Start+1, last); err != nil {
		return opts, err
	}
	if opts.Tolerance, err = p.Int("Gradual tolerance", tolerance, 1, -1); err != nil {
		return opts, err
	}
	return opts, nil
}

// analyze opens the input and runs detection with a progress bar.
func analyze(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, input string, flags *analysisFlags) (*pipeline.Report, error) {
	in, err := p.Open(ctx, input)
	if err != nil {
		return nil, err
	}
	if flags.fps > 0 {
		in.FPS = flags.fps
	}

	opts, err := flags.options(in, cfg)
	if err != nil {
		return nil, err
	}

	w, err := p.Window(in, opts)
	if err != nil {
		return nil, err
	}

	var bar *ui.Progress
	if !flags.noProgress {
		bar = ui.NewProgress(w.Frames(), "🎞️  Extracting", os.Stderr)
		opts.Progress = bar.Frame
	}

	report, err := p.Analyze(ctx, in, opts)
	if bar != nil {
		bar.Done()
	}
	return report, err
}

func newDetectCmd() *cobra.Command {
	var (
		flags  analysisFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "detect [input video or frame directory]",
		Short: "Detect shot boundaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			p := pipeline.New(log.Logger, cfg)

			report, err := analyze(cmd.Context(), cfg, p, args[0], &flags)
			if err != nil {
				return err
			}

			return ui.WriteReport(cmd.OutOrStdout(), report, format)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", ui.FormatTable, "output format: table, json or yaml")
	return cmd
}

func newSplitCmd() *cobra.Command {
	var (
		flags  analysisFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "split [input video]",
		Short: "Detect shots and export each one as a clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			p := pipeline.New(log.Logger, cfg)

			report, err := analyze(cmd.Context(), cfg, p, args[0], &flags)
			if err != nil {
				return err
			}

			splitOpts := pipeline.SplitOptions{OutputDir: output}
			var bar *ui.Progress
			if !flags.noProgress {
				bar = ui.NewProgress(totalFrames(report.Shots), "✂️  Exporting", os.Stderr)
				splitOpts.OnClip, splitOpts.OnProgress = exportProgress(bar)
			}

			dir, err := p.Split(cmd.Context(), report, splitOpts)
			if bar != nil {
				bar.Done()
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessStyle.Render(fmt.Sprintf("✅ %d shots written to %s", len(report.Shots), dir)))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config)")
	return cmd
}

func totalFrames(shots []*clips.Clip) int {
	n := 0
	for _, c := range shots {
		n += c.Frames()
	}
	return n
}

// exportProgress drives bar in frames across all exported shots. ffmpeg's
// frame count for a shot is capped at the shot's length, since stream copy
// can start on an earlier keyframe.
func exportProgress(bar interface{ Set(int) }) (func(*clips.Clip), func(*clips.Clip, *ffmpeg.Progress)) {
	var done int
	onClip := func(c *clips.Clip) {
		done += c.Frames()
		bar.Set(done)
	}
	onProgress := func(c *clips.Clip, pr *ffmpeg.Progress) {
		n := pr.Frame
		if n > c.Frames() {
			n = c.Frames()
		}
		bar.Set(done + n)
	}
	return onClip, onProgress
}
