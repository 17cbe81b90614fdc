package clips

import (
	"testing"
	"time"

	"github.com/keagan/shotcut/internal/shot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type span struct{ start, end int }

func spans(m *Manager) []span {
	var out []span
	for _, c := range m.All() {
		out = append(out, span{c.StartFrame, c.EndFrame})
	}
	return out
}

func TestFromBoundaries(t *testing.T) {
	window := shot.Window{Start: 0, End: 200, Tolerance: 2}

	tests := []struct {
		name       string
		boundaries []shot.Boundary
		want       []span
	}{
		{
			name: "no boundaries",
			want: []span{{0, 199}},
		},
		{
			name:       "single cut",
			boundaries: []shot.Boundary{{Start: 99, End: 100, Kind: shot.KindCut}},
			want:       []span{{0, 99}, {100, 199}},
		},
		{
			name: "cut then gradual",
			boundaries: []shot.Boundary{
				{Start: 49, End: 50, Kind: shot.KindCut},
				{Start: 120, End: 130, Kind: shot.KindGradual},
			},
			want: []span{{0, 49}, {50, 120}, {121, 199}},
		},
		{
			name: "duplicate starts leave no empty shot",
			boundaries: []shot.Boundary{
				{Start: 60, End: 64, Kind: shot.KindGradual},
				{Start: 60, End: 61, Kind: shot.KindCut},
			},
			want: []span{{0, 60}, {61, 199}},
		},
		{
			name:       "boundary on the last frame",
			boundaries: []shot.Boundary{{Start: 199, End: 200, Kind: shot.KindCut}},
			want:       []span{{0, 199}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FromBoundaries(tt.boundaries, window, 25)
			assert.Equal(t, tt.want, spans(m))
		})
	}
}

func TestFromBoundariesTimesAndIDs(t *testing.T) {
	m := FromBoundaries([]shot.Boundary{{Start: 99, End: 100, Kind: shot.KindCut}}, shot.Window{Start: 50, End: 200}, 25)
	require.Equal(t, 2, m.Len())

	first, second := m.All()[0], m.All()[1]

	assert.Equal(t, "shot_0001", first.ID)
	assert.Equal(t, 2*time.Second, first.Start)
	assert.Equal(t, 4*time.Second, first.End)
	assert.Equal(t, 50, first.Frames())
	assert.Empty(t, first.OpenedBy)

	assert.Equal(t, "shot_0002", second.ID)
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, 4*time.Second, second.Start)
	assert.Equal(t, 4*time.Second, second.Duration)
	assert.Equal(t, shot.KindCut, second.OpenedBy)
}

func TestFromBoundariesWithoutFrameRate(t *testing.T) {
	m := FromBoundaries(nil, shot.Window{Start: 0, End: 10}, 0)
	require.Equal(t, 1, m.Len())
	assert.Zero(t, m.All()[0].Duration)
	assert.Equal(t, 10, m.All()[0].Frames())
}
