package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00.000"},
		{1500 * time.Millisecond, "00:00:01.500"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in))
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "45.5", want: 45500 * time.Millisecond},
		{in: "01:30", want: 90 * time.Second},
		{in: "01:00:02", want: time.Hour + 2*time.Second},
		{in: " 2 ", want: 2 * time.Second},
		{in: "1:2:3:4", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFrameRate(t *testing.T) {
	assert.Equal(t, 30.0, ParseFrameRate("30/1"))
	assert.InDelta(t, 29.97, ParseFrameRate("30000/1001"), 0.001)
	assert.Zero(t, ParseFrameRate("30/0"))
	assert.Zero(t, ParseFrameRate("30"))
}

func TestFrameConversions(t *testing.T) {
	assert.Equal(t, 4*time.Second, FrameToDuration(100, 25))
	assert.Zero(t, FrameToDuration(100, 0))

	assert.Equal(t, 100, DurationToFrame(4*time.Second, 25))
	assert.Equal(t, 1, DurationToFrame(30*time.Millisecond, 25))
	assert.Zero(t, DurationToFrame(time.Second, 0))
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		fps     float64
		want    int
		wantErr bool
	}{
		{in: "120", fps: 0, want: 120},
		{in: "4.8s", fps: 25, want: 120},
		{in: "00:00:04.8", fps: 25, want: 120},
		{in: "4.8", fps: 0, wantErr: true},
		{in: "-1", fps: 25, wantErr: true},
		{in: "", fps: 25, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePosition(tt.in, tt.fps)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileHelpers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	assert.True(t, IsDir(dir))
	assert.True(t, FileExists(dir))

	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.True(t, FileExists(file))
	assert.False(t, IsDir(file))
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
}
