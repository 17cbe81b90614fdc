package shot

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/keagan/shotcut/internal/frames"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTolerance is the number of sub-threshold distances that closes a
	// gradual-transition run.
	DefaultTolerance = 2

	// MinFrames is the smallest window that yields two distances.
	MinFrames = 3
)

// Window selects the frames [Start, End) to analyze and the gradual-transition tolerance.
type Window struct {
	Start     int `json:"start" yaml:"start"`
	End       int `json:"end" yaml:"end"`
	Tolerance int `json:"tolerance" yaml:"tolerance"`
}

// Frames returns the number of frames in the window.
func (w Window) Frames() int {
	return w.End - w.Start
}

// Validate checks the window on its own, before any source is consulted.
func (w Window) Validate() error {
	if w.Start < 0 {
		return fmt.Errorf("%w: start %d is negative", ErrInvalidWindow, w.Start)
	}
	if w.End <= w.Start {
		return fmt.Errorf("%w: end %d must be after start %d", ErrInvalidWindow, w.End, w.Start)
	}
	if w.Tolerance < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTolerance, w.Tolerance)
	}
	if w.Frames() < MinFrames {
		return fmt.Errorf("%w: window holds %d frames, need at least %d", ErrDegenerateSeries, w.Frames(), MinFrames)
	}
	return nil
}

// ProgressFunc is called once per extracted frame with its absolute frame
// number. It may be called from several goroutines at once.
type ProgressFunc func(frame int)

// Options configures an Engine.
type Options struct {
	// Workers bounds the number of frames histogrammed in parallel.
	// Zero means runtime.NumCPU().
	Workers int

	Progress ProgressFunc
}

// Result is the outcome of one analysis pass.
type Result struct {
	Window     Window     `json:"window" yaml:"window"`
	Stats      Stats      `json:"stats" yaml:"stats"`
	Thresholds Thresholds `json:"thresholds" yaml:"thresholds"`
	Distances  []int      `json:"distances,omitempty" yaml:"distances,omitempty"`
	Boundaries []Boundary `json:"boundaries" yaml:"boundaries"`
}

// Cuts returns the boundaries produced by the cut detector.
func (r *Result) Cuts() []Boundary {
	return r.byKind(KindCut)
}

// Gradual returns the boundaries produced by the gradual-transition detector.
func (r *Result) Gradual() []Boundary {
	return r.byKind(KindGradual)
}

func (r *Result) byKind(kind Kind) []Boundary {
	var out []Boundary
	for _, b := range r.Boundaries {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Engine runs the full detection pipeline over a frame source.
type Engine struct {
	logger   zerolog.Logger
	workers  int
	progress ProgressFunc
}

// NewEngine creates an engine.
func NewEngine(logger zerolog.Logger, opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{
		logger:   logger.With().Str("component", "shot-engine").Logger(),
		workers:  workers,
		progress: opts.Progress,
	}
}

// Analyze extracts one histogram per frame of the window, then runs both
// detectors over the resulting distance series.
func (e *Engine) Analyze(ctx context.Context, src frames.Source, w Window) (*Result, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	count, err := src.FrameCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count source frames: %w", err)
	}
	if count != frames.UnknownCount && w.End > count {
		return nil, fmt.Errorf("%w: end %d is past the last frame (%d available)", ErrInvalidWindow, w.End, count)
	}

	e.logger.Info().
		Int("start", w.Start).
		Int("end", w.End).
		Int("tolerance", w.Tolerance).
		Int("workers", e.workers).
		Msg("extracting histograms")

	began := time.Now()
	table, err := e.extract(ctx, src, w)
	if err != nil {
		return nil, err
	}
	e.logger.Debug().Dur("elapsed", time.Since(began)).Msg("histogram extraction complete")

	result, err := Detect(Distances(table), w.Tolerance, w.Start)
	if err != nil {
		return nil, err
	}
	result.Window = w

	e.logger.Info().
		Float64("mean", result.Stats.Mean).
		Float64("std_dev", result.Stats.StdDev).
		Float64("cut_threshold", result.Thresholds.Cut).
		Float64("gradual_threshold", result.Thresholds.Gradual).
		Msg("thresholds estimated")
	if result.Thresholds.Inverted() {
		e.logger.Warn().Msg("gradual threshold above cut threshold, no gradual transitions possible")
	}
	for _, b := range result.Boundaries {
		e.logger.Debug().Str("kind", string(b.Kind)).Int("start", b.Start).Int("end", b.End).Msg("boundary")
	}
	e.logger.Info().
		Int("cuts", len(result.Cuts())).
		Int("gradual", len(result.Gradual())).
		Msg("shot detection complete")

	return result, nil
}

// extract fills a table from the source. Each frame is histogrammed by a
// worker writing only its own row; Wait is the barrier before the table is read.
func (e *Engine) extract(ctx context.Context, src frames.Source, w Window) (Table, error) {
	table := NewTable(w.Frames())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	delivered := 0
	streamErr := src.Stream(gctx, w.Start, w.End, func(index int, f frames.Frame) error {
		row := index - w.Start + 1
		if row < 1 || row >= len(table) {
			return fmt.Errorf("%w: source delivered frame %d outside [%d, %d)", ErrInvalidWindow, index, w.Start, w.End)
		}
		delivered++
		g.Go(func() error {
			table.Fill(row, f)
			if e.progress != nil {
				e.progress(index)
			}
			return nil
		})
		return nil
	})
	waitErr := g.Wait()

	if streamErr != nil {
		return nil, fmt.Errorf("frame extraction failed: %w", streamErr)
	}
	if waitErr != nil {
		return nil, fmt.Errorf("frame extraction failed: %w", waitErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if delivered != w.Frames() {
		return nil, fmt.Errorf("%w: got %d of %d frames", ErrShortSource, delivered, w.Frames())
	}

	return table, nil
}

// Detect runs threshold estimation and both detectors over a distance series.
// offset converts local indices into absolute frame numbers.
func Detect(distances []int, tolerance, offset int) (*Result, error) {
	if tolerance < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTolerance, tolerance)
	}

	stats, th, err := Estimate(distances)
	if err != nil {
		return nil, err
	}

	store := NewStore()
	DetectCuts(distances, th, offset, store)
	DetectGradual(distances, th, tolerance, offset, store)

	return &Result{
		Stats:      stats,
		Thresholds: th,
		Distances:  distances,
		Boundaries: store.Drain(),
	}, nil
}
