package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/keagan/shotcut/internal/clips"
	"github.com/keagan/shotcut/internal/config"
	"github.com/keagan/shotcut/internal/ffmpeg"
	"github.com/keagan/shotcut/internal/pipeline"
	"github.com/keagan/shotcut/internal/shot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted answers prompts from a fixed list and records the bounds asked for.
type scripted struct {
	answers []int
	bounds  [][2]int
}

func (s *scripted) Int(label string, def, min, max int) (int, error) {
	s.bounds = append(s.bounds, [2]int{min, max})
	v := s.answers[0]
	s.answers = s.answers[1:]
	return v, nil
}

func (s *scripted) Confirm(string) (bool, error) { return true, nil }

func TestAnalysisFlagsOptions(t *testing.T) {
	in := &pipeline.Input{Path: "x.mp4", FPS: 25, Frames: 500}

	flags := analysisFlags{start: "2s", end: "00:00:10", tolerance: 3}
	opts, err := flags.options(in, config.Default())
	require.NoError(t, err)
	assert.Equal(t, 50, opts.Start)
	assert.Equal(t, 250, opts.End)
	assert.Equal(t, 3, opts.Tolerance)

	flags = analysisFlags{start: "10"}
	opts, err = flags.options(in, config.Default())
	require.NoError(t, err)
	assert.Equal(t, 10, opts.Start)
	assert.Zero(t, opts.End)

	flags = analysisFlags{start: "1.5"}
	_, err = flags.options(&pipeline.Input{Path: "frames"}, config.Default())
	assert.ErrorContains(t, err, "--start")
}

func TestPromptOptions(t *testing.T) {
	p := &scripted{answers: []int{20, 120, 4}}
	in := &pipeline.Input{Frames: 300}

	opts, err := promptOptions(p, in, config.Default(), pipeline.AnalyzeOptions{Start: 5})
	require.NoError(t, err)

	assert.Equal(t, pipeline.AnalyzeOptions{Start: 20, End: 120, Tolerance: 4}, opts)
	assert.Equal(t, [][2]int{{0, 299}, {21, 300}, {1, -1}}, p.bounds)
}

func TestDetectCommandJSON(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 150; i++ {
		img := image.NewGray(image.Rect(0, 0, 3, 3))
		if i >= 70 {
			for p := range img.Pix {
				img.Pix[p] = 200
			}
		}
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("%04d.png", i)))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"detect", dir, "--format", "json", "--no-progress", "--fps", "10"})
	require.NoError(t, rootCmd.Execute())

	var report pipeline.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	assert.Equal(t, 10.0, report.FPS)
	assert.Equal(t, []shot.Boundary{{Start: 69, End: 70, Kind: shot.KindCut}}, report.Result.Boundaries)
	require.Len(t, report.Shots, 2)
	assert.Equal(t, 70, report.Shots[1].StartFrame)
}

type recordedBar struct{ positions []int }

func (r *recordedBar) Set(n int) { r.positions = append(r.positions, n) }

func TestExportProgress(t *testing.T) {
	shots := []*clips.Clip{
		{ID: "shot_0001", StartFrame: 0, EndFrame: 99},
		{ID: "shot_0002", StartFrame: 100, EndFrame: 149},
	}
	assert.Equal(t, 150, totalFrames(shots))

	bar := &recordedBar{}
	onClip, onProgress := exportProgress(bar)

	onProgress(shots[0], &ffmpeg.Progress{Frame: 40})
	onProgress(shots[0], &ffmpeg.Progress{Frame: 130})
	onClip(shots[0])
	onProgress(shots[1], &ffmpeg.Progress{Frame: 10})
	onClip(shots[1])

	assert.Equal(t, []int{40, 100, 100, 110, 150}, bar.positions)
}
