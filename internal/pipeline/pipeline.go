// Package pipeline ties frame sources, the shot engine and ffmpeg export
// together for the command line.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/keagan/shotcut/internal/clips"
	"github.com/keagan/shotcut/internal/config"
	"github.com/keagan/shotcut/internal/ffmpeg"
	"github.com/keagan/shotcut/internal/frames"
	"github.com/keagan/shotcut/internal/shot"
	"github.com/keagan/shotcut/pkg/util"
	"github.com/rs/zerolog"
)

// ManifestName is the file Split writes next to the exported shots.
const ManifestName = "shots.json"

// Pipeline orchestrates the entire video processing workflow
type Pipeline struct {
	base   zerolog.Logger
	logger zerolog.Logger
	config *config.Config

	ffmpeg    *ffmpeg.Executor
	ffmpegErr error
}

// New creates a new pipeline instance. A missing ffmpeg is only reported
// once an operation needs it, so image sequences work without it.
func New(logger zerolog.Logger, cfg *config.Config) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}

	p := &Pipeline{
		base:   logger,
		logger: logger.With().Str("component", "pipeline").Logger(),
		config: cfg,
	}

	p.ffmpeg, p.ffmpegErr = ffmpeg.NewWithDir(logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
	if p.ffmpegErr != nil {
		p.logger.Debug().Err(p.ffmpegErr).Msg("ffmpeg unavailable, video inputs disabled")
	}

	return p
}

// FFmpeg returns the executor, or the error that kept it from starting.
func (p *Pipeline) FFmpeg() (*ffmpeg.Executor, error) {
	if p.ffmpegErr != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", p.ffmpegErr)
	}
	return p.ffmpeg, nil
}

// Open prepares path for analysis: a directory is read as an image sequence,
// anything else is decoded with ffmpeg.
func (p *Pipeline) Open(ctx context.Context, path string) (*Input, error) {
	if path == "" {
		return nil, fmt.Errorf("input path cannot be empty")
	}
	if !util.FileExists(path) {
		return nil, fmt.Errorf("input %s does not exist", path)
	}

	if util.IsDir(path) {
		src, err := frames.NewDirSource(path)
		if err != nil {
			return nil, err
		}
		src.ResizeWidth = uint(p.config.Frames.ResizeWidth)

		count, err := src.FrameCount(ctx)
		if err != nil {
			return nil, err
		}

		p.logger.Info().Str("input", path).Int("frames", count).Msg("opened image sequence")
		return &Input{Path: path, Kind: SourceFrames, Source: src, Frames: count}, nil
	}

	exec, err := p.FFmpeg()
	if err != nil {
		return nil, err
	}

	src := exec.NewFrameSource(path, p.config.Frames.ResizeWidth)
	info, err := src.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video: %w", err)
	}

	count := info.FrameCount
	if count <= 0 {
		count = frames.UnknownCount
	}

	p.logger.Info().
		Str("input", path).
		Dur("duration", info.Duration).
		Int("width", info.Width).
		Int("height", info.Height).
		Float64("fps", info.FPS).
		Int("frames", count).
		Msg("video metadata extracted")

	return &Input{Path: path, Kind: SourceVideo, Source: src, Video: info, FPS: info.FPS, Frames: count}, nil
}

// Window resolves opts against the input and configuration.
func (p *Pipeline) Window(in *Input, opts AnalyzeOptions) (shot.Window, error) {
	w := shot.Window{Start: opts.Start, End: opts.End, Tolerance: opts.Tolerance}
	if w.Tolerance == 0 {
		w.Tolerance = p.config.Detect.Tolerance
	}
	if w.End == 0 {
		if in.Frames == frames.UnknownCount {
			return w, fmt.Errorf("frame count of %s is unknown, give an explicit end", in.Path)
		}
		w.End = in.Frames
	}
	return w, w.Validate()
}

// Analyze runs shot detection over the input and segments it into shots.
func (p *Pipeline) Analyze(ctx context.Context, in *Input, opts AnalyzeOptions) (*Report, error) {
	w, err := p.Window(in, opts)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers == 0 {
		workers = p.config.Detect.Workers
	}

	p.logger.Info().
		Str("input", in.Path).
		Str("kind", string(in.Kind)).
		Int("start", w.Start).
		Int("end", w.End).
		Msg("starting analysis pipeline")

	began := time.Now()
	engine := shot.NewEngine(p.base, shot.Options{Workers: workers, Progress: opts.Progress})
	result, err := engine.Analyze(ctx, in.Source, w)
	if err != nil {
		return nil, fmt.Errorf("shot detection failed: %w", err)
	}

	shots := clips.FromBoundaries(result.Boundaries, w, in.FPS)

	report := &Report{
		ID:        uuid.NewString(),
		Input:     in.Path,
		Kind:      in.Kind,
		Video:     in.Video,
		FPS:       in.FPS,
		Result:    result,
		Shots:     shots.All(),
		CreatedAt: time.Now(),
		Elapsed:   time.Since(began),
	}

	p.logger.Info().
		Str("report", report.ID).
		Int("boundaries", len(result.Boundaries)).
		Int("shots", len(report.Shots)).
		Dur("elapsed", report.Elapsed).
		Msg("analysis pipeline complete")

	return report, nil
}

// Split exports every shot of report as its own clip, plus a thumbnail of
// its first frame when enabled, and writes a manifest next to them.
func (p *Pipeline) Split(ctx context.Context, report *Report, opts SplitOptions) (string, error) {
	if report == nil {
		return "", fmt.Errorf("report cannot be nil")
	}
	if report.Kind != SourceVideo {
		return "", fmt.Errorf("only video inputs can be split, %s is %s", report.Input, report.Kind)
	}
	if report.FPS <= 0 {
		return "", fmt.Errorf("frame rate of %s is unknown", report.Input)
	}
	if len(report.Shots) == 0 {
		return "", fmt.Errorf("report has no shots to export")
	}

	exec, err := p.FFmpeg()
	if err != nil {
		return "", err
	}

	base := opts.OutputDir
	if base == "" {
		base = p.config.Export.OutputDir
	}
	stem := trimExt(filepath.Base(report.Input))
	dir := filepath.Join(base, stem)
	if err := util.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	p.logger.Info().
		Str("input", report.Input).
		Str("output", dir).
		Int("shots", len(report.Shots)).
		Msg("starting shot export")

	ext := filepath.Ext(report.Input)
	if ext == "" {
		ext = ".mp4"
	}

	for _, c := range report.Shots {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		c.Output = filepath.Join(dir, c.ID+ext)
		clipOpts := ffmpeg.ClipOptions{
			Start:     c.Start,
			End:       c.End,
			Output:    c.Output,
			CopyCodec: p.config.Export.CopyCodec,
			Preset:    p.config.FFmpeg.Preset,
		}
		if opts.OnProgress != nil {
			current := c
			clipOpts.ProgressFunc = func(pr *ffmpeg.Progress) {
				opts.OnProgress(current, pr)
			}
		}
		err := exec.ExtractClip(ctx, report.Input, clipOpts)
		if err != nil {
			return "", fmt.Errorf("failed to export %s: %w", c.ID, err)
		}

		if p.config.Export.Thumbnails {
			c.Thumbnail = filepath.Join(dir, c.ID+".jpg")
			if err := exec.GenerateThumbnail(ctx, report.Input, c.Thumbnail, c.Start, p.config.Export.ThumbnailWidth); err != nil {
				return "", fmt.Errorf("failed to capture thumbnail for %s: %w", c.ID, err)
			}
		}

		if opts.OnClip != nil {
			opts.OnClip(c)
		}
	}

	if err := writeManifest(filepath.Join(dir, ManifestName), report); err != nil {
		return "", err
	}

	p.logger.Info().Str("output", dir).Msg("shot export complete")
	return dir, nil
}

func writeManifest(path string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
