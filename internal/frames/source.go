package frames

import "context"

// UnknownCount is returned by FrameCount when a source cannot tell its length up front.
const UnknownCount = -1

// Source supplies decoded frames in temporal order.
type Source interface {
	// FrameCount reports the number of frames available, or UnknownCount.
	FrameCount(ctx context.Context) (int, error)

	// Stream calls fn with every frame in [start, end) in order, passing the
	// absolute frame number. It returns early on the first error from fn or
	// when ctx is done. A source that runs dry before end returns nil; callers
	// compare the number of delivered frames against the window.
	Stream(ctx context.Context, start, end int, fn func(index int, f Frame) error) error
}

// SliceSource serves frames held in memory.
type SliceSource struct {
	Frames []Frame
}

// NewSliceSource wraps frames in a Source.
func NewSliceSource(frames ...Frame) *SliceSource {
	return &SliceSource{Frames: frames}
}

func (s *SliceSource) FrameCount(ctx context.Context) (int, error) {
	return len(s.Frames), nil
}

func (s *SliceSource) Stream(ctx context.Context, start, end int, fn func(index int, f Frame) error) error {
	if start < 0 {
		start = 0
	}
	for i := start; i < end && i < len(s.Frames); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(i, s.Frames[i]); err != nil {
			return err
		}
	}
	return nil
}
