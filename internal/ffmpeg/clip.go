package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/keagan/shotcut/pkg/util"
)

// ClipOptions defines one shot export.
//
// Start and End bound the shot in stream time: a shot covering frames
// [first, last] at r fps is exported with Start = first/r and
// End = (last+1)/r, so End is exclusive and consecutive shots share an
// edge without overlapping. With CopyCodec the output begins on the
// keyframe at or before Start.
type ClipOptions struct {
	Start        time.Duration
	End          time.Duration
	Output       string
	CopyCodec    bool
	VideoCodec   string
	AudioCodec   string
	CRF          int // 0-51, lower is better
	Preset       string
	ProgressFunc ProgressFunc
}

func (o ClipOptions) validate(input string) error {
	if input == "" {
		return fmt.Errorf("input path is required")
	}
	if o.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if o.End <= o.Start {
		return fmt.Errorf("invalid clip duration: end must be after start")
	}
	return nil
}

// codecArgs returns the encoder arguments, filling unset fields with the
// package defaults.
func (o ClipOptions) codecArgs() []string {
	if o.CopyCodec {
		return []string{"-c", "copy"}
	}

	video := o.VideoCodec
	if video == "" {
		video = DefaultVideoCodec
	}
	audio := o.AudioCodec
	if audio == "" {
		audio = DefaultAudioCodec
	}
	crf := o.CRF
	if crf == 0 {
		crf = DefaultCRF
	}
	preset := o.Preset
	if preset == "" {
		preset = DefaultPreset
	}

	return []string{
		"-c:v", video,
		"-c:a", audio,
		"-crf", strconv.Itoa(crf),
		"-preset", preset,
	}
}

// ExtractClip writes [opts.Start, opts.End) of input to opts.Output.
func (e *Executor) ExtractClip(ctx context.Context, input string, opts ClipOptions) error {
	if err := opts.validate(input); err != nil {
		return err
	}
	duration := opts.End - opts.Start

	e.logger.Info().
		Str("input", input).
		Str("output", opts.Output).
		Dur("start", opts.Start).
		Dur("duration", duration).
		Bool("copy_codec", opts.CopyCodec).
		Msg("exporting shot")

	// -ss after -i decodes up to Start, which keeps re-encoded shots frame accurate
	args := []string{
		"-i", input,
		"-ss", util.FormatDuration(opts.Start),
		"-t", util.FormatDuration(duration),
	}
	args = append(args, opts.codecArgs()...)
	args = append(args, opts.Output)

	err := e.Run(ctx, RunOptions{
		Args:            args,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("shot export")
		},
	})
	if err != nil {
		return fmt.Errorf("clip extraction failed: %w", err)
	}

	e.logger.Info().Str("output", opts.Output).Msg("shot export complete")
	return nil
}
