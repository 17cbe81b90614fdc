package ffmpeg

import (
	"context"
	"fmt"
	"time"

	"github.com/keagan/shotcut/pkg/util"
)

// GenerateThumbnail writes the frame at timestamp to output as an image.
// width > 0 scales the image down, keeping the aspect ratio.
func (e *Executor) GenerateThumbnail(ctx context.Context, input, output string, timestamp time.Duration, width int) error {
	if input == "" {
		return fmt.Errorf("input path is required")
	}
	if output == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Debug().
		Str("input", input).
		Str("output", output).
		Dur("timestamp", timestamp).
		Msg("generating thumbnail")

	args := []string{
		"-ss", util.FormatDuration(timestamp),
		"-i", input,
		"-frames:v", "1",
	}
	if width > 0 {
		args = append(args, "-vf", NewFilterBuilder().Custom(fmt.Sprintf("scale=%d:-2", width)).Build())
	}
	// high quality jpeg
	args = append(args, "-q:v", "2", output)

	opts := RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("thumbnail generation")
		},
	}

	if err := e.Run(ctx, opts); err != nil {
		return fmt.Errorf("thumbnail generation failed: %w", err)
	}
	return nil
}
