package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/keagan/shotcut/internal/frames"
)

// FrameSource decodes a video file into RGB frames through an ffmpeg pipe.
// It implements frames.Source.
type FrameSource struct {
	exec  *Executor
	input string

	// ScaleWidth downsamples frames wider than this before they leave ffmpeg,
	// keeping the aspect ratio. Zero keeps the native size.
	ScaleWidth int

	mu      sync.Mutex
	info    *VideoInfo
	infoErr error
}

// NewFrameSource returns a source over the video stream of input.
func (e *Executor) NewFrameSource(input string, scaleWidth int) *FrameSource {
	return &FrameSource{exec: e, input: input, ScaleWidth: scaleWidth}
}

// Info probes the input and caches the result. A probe cut short by ctx is
// not cached, so a later call with a live context probes again.
func (s *FrameSource) Info(ctx context.Context) (*VideoInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.info != nil || s.infoErr != nil {
		return s.info, s.infoErr
	}

	info, err := s.exec.ProbeVideo(ctx, s.input)
	if err != nil && ctx.Err() != nil {
		return nil, err
	}
	s.info, s.infoErr = info, err
	return info, err
}

func (s *FrameSource) FrameCount(ctx context.Context) (int, error) {
	info, err := s.Info(ctx)
	if err != nil {
		return 0, err
	}
	if info.FrameCount <= 0 {
		return frames.UnknownCount, nil
	}
	return info.FrameCount, nil
}

// outputSize returns the frame size ffmpeg will write for this source.
func (s *FrameSource) outputSize(info *VideoInfo) (int, int) {
	if s.ScaleWidth <= 0 || s.ScaleWidth >= info.Width {
		return info.Width, info.Height
	}
	h := info.Height * s.ScaleWidth / info.Width
	if h < 1 {
		h = 1
	}
	return s.ScaleWidth, h
}

func (s *FrameSource) Stream(ctx context.Context, start, end int, fn func(index int, f frames.Frame) error) error {
	if start < 0 {
		start = 0
	}
	if end <= start {
		return nil
	}

	info, err := s.Info(ctx)
	if err != nil {
		return err
	}
	if info.Width <= 0 || info.Height <= 0 {
		return fmt.Errorf("video %s reports no frame size", s.input)
	}

	width, height := s.outputSize(info)
	fb := NewFilterBuilder().SelectRange(start, end)
	if width != info.Width {
		fb.Scale(width, height)
	}

	args := []string{
		"-i", s.input,
		"-map", "0:v:0",
		"-vf", fb.Build(),
		"-fps_mode", "passthrough",
		"-frames:v", fmt.Sprintf("%d", end-start),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	}

	s.exec.logger.Info().
		Str("input", s.input).
		Int("start", start).
		Int("end", end).
		Int("width", width).
		Int("height", height).
		Msg("decoding frames")

	opts := RunOptions{
		Args: args,
		LogHandler: func(line string) {
			s.exec.logger.Debug().Str("ffmpeg", line).Msg("frame decode")
		},
	}

	return s.exec.RunPipe(ctx, opts, func(stdout io.Reader) error {
		return readFrames(ctx, stdout, width, height, start, end, fn)
	})
}

// readFrames slices a raw rgb24 stream into frames. Every frame gets its own
// buffer since consumers may hold on to it from other goroutines.
func readFrames(ctx context.Context, r io.Reader, width, height, start, end int, fn func(int, frames.Frame) error) error {
	size := width * height * 3
	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		buf := make([]byte, size)
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("truncated frame %d: %w", i, err)
		}

		if err := fn(i, &frames.RGB24{W: width, H: height, Pix: buf}); err != nil {
			return err
		}
	}
	return nil
}
