// Package clips turns detected shot boundaries into playable shot segments.
package clips

import (
	"fmt"
	"time"

	"github.com/keagan/shotcut/internal/shot"
	"github.com/keagan/shotcut/pkg/util"
)

// Clip is one shot: a run of frames between two boundaries.
type Clip struct {
	ID         string        `json:"id" yaml:"id"`
	Index      int           `json:"index" yaml:"index"`
	StartFrame int           `json:"start_frame" yaml:"start_frame"`
	EndFrame   int           `json:"end_frame" yaml:"end_frame"`
	Start      time.Duration `json:"start" yaml:"start"`
	End        time.Duration `json:"end" yaml:"end"`
	Duration   time.Duration `json:"duration" yaml:"duration"`

	// OpenedBy is the kind of boundary the shot starts after; empty for the
	// first shot of the window.
	OpenedBy shot.Kind `json:"opened_by,omitempty" yaml:"opened_by,omitempty"`

	Output    string `json:"output,omitempty" yaml:"output,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

// Frames returns the number of frames in the clip, both ends included.
func (c *Clip) Frames() int {
	return c.EndFrame - c.StartFrame + 1
}

// Manager holds the clips of one analysis run in playback order.
type Manager struct {
	clips []*Clip
}

// NewManager creates an empty clip manager
func NewManager() *Manager {
	return &Manager{
		clips: make([]*Clip, 0),
	}
}

// FromBoundaries splits window into shots at the given boundaries, which must
// be in ascending start order. The first shot runs from the window start to
// the first boundary's start; each later shot starts one frame after the
// previous boundary's start and ends at the next boundary's start; the last
// shot ends on the window's last frame. Segments left empty by overlapping
// boundaries are skipped. fps converts frames to time; zero leaves times unset.
func FromBoundaries(boundaries []shot.Boundary, w shot.Window, fps float64) *Manager {
	m := NewManager()
	last := w.End - 1
	if last < w.Start {
		return m
	}

	start := w.Start
	var opened shot.Kind
	for _, b := range boundaries {
		end := b.Start
		if end > last {
			end = last
		}
		m.add(start, end, opened, fps)
		start = b.Start + 1
		opened = b.Kind
	}
	m.add(start, last, opened, fps)

	return m
}

func (m *Manager) add(startFrame, endFrame int, opened shot.Kind, fps float64) {
	if endFrame < startFrame {
		return
	}

	index := len(m.clips)
	start := util.FrameToDuration(startFrame, fps)
	end := util.FrameToDuration(endFrame+1, fps)
	m.Add(&Clip{
		ID:         fmt.Sprintf("shot_%04d", index+1),
		Index:      index,
		StartFrame: startFrame,
		EndFrame:   endFrame,
		Start:      start,
		End:        end,
		Duration:   end - start,
		OpenedBy:   opened,
	})
}

// Add adds a clip to the manager
func (m *Manager) Add(clip *Clip) {
	m.clips = append(m.clips, clip)
}

// All returns all clips
func (m *Manager) All() []*Clip {
	return m.clips
}

// Len returns the number of clips
func (m *Manager) Len() int {
	return len(m.clips)
}
