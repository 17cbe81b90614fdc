package pipeline

import (
	"time"

	"github.com/keagan/shotcut/internal/clips"
	"github.com/keagan/shotcut/internal/ffmpeg"
	"github.com/keagan/shotcut/internal/frames"
	"github.com/keagan/shotcut/internal/shot"
)

// SourceKind tells how an input is decoded.
type SourceKind string

const (
	SourceVideo  SourceKind = "video"
	SourceFrames SourceKind = "frames"
)

// Input is an opened video file or image-sequence directory.
type Input struct {
	Path   string
	Kind   SourceKind
	Source frames.Source

	// Video is set for video inputs only.
	Video *ffmpeg.VideoInfo

	// FPS converts frame numbers to time. Image sequences have none unless
	// the caller sets one.
	FPS float64

	// Frames is the number of frames available, or frames.UnknownCount.
	Frames int
}

// AnalyzeOptions selects the frames to analyze. Zero values fall back to the
// configuration, and a zero End means the last frame of the input.
type AnalyzeOptions struct {
	Start     int
	End       int
	Tolerance int
	Workers   int
	Progress  shot.ProgressFunc
}

// Report is the outcome of one analysis run.
type Report struct {
	ID        string            `json:"id" yaml:"id"`
	Input     string            `json:"input" yaml:"input"`
	Kind      SourceKind        `json:"kind" yaml:"kind"`
	Video     *ffmpeg.VideoInfo `json:"video,omitempty" yaml:"video,omitempty"`
	FPS       float64           `json:"fps" yaml:"fps"`
	Result    *shot.Result      `json:"result" yaml:"result"`
	Shots     []*clips.Clip     `json:"shots" yaml:"shots"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
	Elapsed   time.Duration     `json:"elapsed" yaml:"elapsed"`
}

// SplitOptions controls shot export.
type SplitOptions struct {
	// OutputDir overrides the configured export directory.
	OutputDir string
	// OnClip is called after each shot has been written.
	OnClip func(*clips.Clip)
	// OnProgress receives ffmpeg's progress while c is being encoded.
	// Frame counts restart at zero for every shot.
	OnProgress func(c *clips.Clip, p *ffmpeg.Progress)
}
