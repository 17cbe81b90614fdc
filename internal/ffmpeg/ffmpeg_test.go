package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestResults stores results from all tests for final summary
type TestResults struct {
	ExecutorPath string
	ProbeResults *VideoInfo
	ClipCreated  bool
	FramesRead   int
	Errors       []string
	TestDuration time.Duration
}

var globalResults = &TestResults{
	Errors: make([]string, 0),
}

const (
	testFrames = 200
	testCutAt  = 100
	testWidth  = 64
	testHeight = 48
	testRate   = 25
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH - install with: brew install ffmpeg")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH - install with: brew install ffmpeg")
	}
}

// makeTestVideo renders testCutAt black frames followed by white frames up
// to testFrames, so the only shot boundary sits between 99 and 100.
func makeTestVideo(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hardcut.mp4")
	seconds := float64(testCutAt) / testRate
	size := fmt.Sprintf("%dx%d", testWidth, testHeight)

	cmd := exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", fmt.Sprintf("color=c=black:s=%s:r=%d:d=%g", size, testRate, seconds),
		"-f", "lavfi", "-i", fmt.Sprintf("color=c=white:s=%s:r=%d:d=%g", size, testRate, float64(testFrames-testCutAt)/testRate),
		"-filter_complex", "[0:v][1:v]concat=n=2:v=1:a=0[v]",
		"-map", "[v]",
		"-c:v", "mpeg4", "-q:v", "2", "-pix_fmt", "yuv420p",
		"-y", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("could not generate test video: %v\n%s", err, out)
	}
	return path
}

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).Level(zerolog.InfoLevel)
	e, err := New(logger, 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	return e
}

func TestExecutorCreation(t *testing.T) {
	skipIfNoFFmpeg(t)

	logger := zerolog.New(os.Stderr)
	exec, err := New(logger, 4)
	if err != nil {
		globalResults.Errors = append(globalResults.Errors, fmt.Sprintf("Executor creation failed: %v", err))
		t.Fatalf("failed to create executor: %v", err)
	}
	if exec.ffmpegPath == "" {
		t.Error("ffmpeg path is empty")
	}
	if exec.ffprobePath == "" {
		t.Error("ffprobe path is empty")
	}

	globalResults.ExecutorPath = exec.ffmpegPath
	t.Logf("ffmpeg: %s", exec.ffmpegPath)
	t.Logf("ffprobe: %s", exec.ffprobePath)
}

func TestNewWithDirMissingBinaries(t *testing.T) {
	_, err := NewWithDir(zerolog.Nop(), t.TempDir(), 1)
	if err == nil {
		t.Fatal("expected an error for a directory without ffmpeg")
	}
	if !strings.Contains(err.Error(), "ffmpeg not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProbeVideo(t *testing.T) {
	skipIfNoFFmpeg(t)

	path := makeTestVideo(t)
	exec := newTestExecutor(t)

	start := time.Now()
	info, err := exec.ProbeVideo(context.Background(), path)
	elapsed := time.Since(start)
	if err != nil {
		globalResults.Errors = append(globalResults.Errors, fmt.Sprintf("ProbeVideo failed: %v", err))
		t.Fatalf("ProbeVideo failed: %v", err)
	}

	globalResults.ProbeResults = info
	globalResults.TestDuration = elapsed

	if info.Width != testWidth {
		t.Errorf("expected width %d, got %d", testWidth, info.Width)
	}
	if info.Height != testHeight {
		t.Errorf("expected height %d, got %d", testHeight, info.Height)
	}
	if info.FPS != testRate {
		t.Errorf("expected %d fps, got %.3f", testRate, info.FPS)
	}
	if info.FrameCount != testFrames {
		t.Errorf("expected %d frames, got %d", testFrames, info.FrameCount)
	}
	if info.Duration == 0 {
		t.Error("duration is zero")
	}

	t.Logf("Video info: %dx%d, %.2f fps, %d frames, duration: %v (probed in %v)",
		info.Width, info.Height, info.FPS, info.FrameCount, info.Duration, elapsed)
}

func TestCountFrames(t *testing.T) {
	skipIfNoFFmpeg(t)

	path := makeTestVideo(t)
	n, err := newTestExecutor(t).CountFrames(context.Background(), path)
	if err != nil {
		t.Fatalf("CountFrames failed: %v", err)
	}
	if n != testFrames {
		t.Errorf("expected %d frames, got %d", testFrames, n)
	}
}

func TestProbeVideoInvalidFile(t *testing.T) {
	skipIfNoFFmpeg(t)

	exec := newTestExecutor(t)
	ctx := context.Background()

	_, err := exec.ProbeVideo(ctx, "nonexistent.mp4")
	if err == nil {
		t.Error("ProbeVideo should fail for non-existent file")
	}
	t.Logf("Error (expected): %v", err)

	invalidPath := filepath.Join(t.TempDir(), "invalid.txt")
	if err := os.WriteFile(invalidPath, []byte("not a video"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err = exec.ProbeVideo(ctx, invalidPath)
	if err == nil {
		t.Error("ProbeVideo should fail for invalid video file")
	}
	t.Logf("Error (expected): %v", err)
}

func TestExtractClip(t *testing.T) {
	skipIfNoFFmpeg(t)

	path := makeTestVideo(t)
	exec := newTestExecutor(t)
	outputPath := filepath.Join(t.TempDir(), "clip_output.mp4")

	var updates int
	opts := ClipOptions{
		Start:     time.Second,
		End:       2 * time.Second,
		Output:    outputPath,
		CopyCodec: true,
		ProgressFunc: func(p *Progress) {
			updates++
			if p.Frame <= 0 {
				t.Errorf("progress update without a frame count: %+v", p)
			}
		},
	}

	start := time.Now()
	err := exec.ExtractClip(context.Background(), path, opts)
	elapsed := time.Since(start)
	if err != nil {
		globalResults.Errors = append(globalResults.Errors, fmt.Sprintf("ExtractClip failed: %v", err))
		t.Fatalf("ExtractClip failed: %v", err)
	}

	stat, err := os.Stat(outputPath)
	if err != nil {
		t.Fatalf("output file was not created: %v", err)
	}

	if updates == 0 {
		t.Error("expected at least one progress update")
	}

	globalResults.ClipCreated = true
	t.Logf("Clip created: %s (size: %d bytes, took %v)", outputPath, stat.Size(), elapsed)
}

func TestExtractClipValidation(t *testing.T) {
	e := &Executor{logger: zerolog.Nop()}

	tests := []struct {
		name  string
		input string
		opts  ClipOptions
	}{
		{name: "missing input", opts: ClipOptions{End: time.Second, Output: "out.mp4"}},
		{name: "missing output", input: "in.mp4", opts: ClipOptions{End: time.Second}},
		{name: "empty range", input: "in.mp4", opts: ClipOptions{Start: time.Second, End: time.Second, Output: "out.mp4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := e.ExtractClip(context.Background(), tt.input, tt.opts); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestClipCodecArgs(t *testing.T) {
	tests := []struct {
		name string
		opts ClipOptions
		want string
	}{
		{name: "stream copy", opts: ClipOptions{CopyCodec: true, Preset: "fast"}, want: "-c copy"},
		{name: "defaults", opts: ClipOptions{}, want: "-c:v libx264 -c:a aac -crf 23 -preset medium"},
		{name: "overrides", opts: ClipOptions{VideoCodec: "mpeg4", CRF: 18, Preset: "slow"}, want: "-c:v mpeg4 -c:a aac -crf 18 -preset slow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(tt.opts.codecArgs(), " ")
			if got != tt.want {
				t.Errorf("codecArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateThumbnail(t *testing.T) {
	skipIfNoFFmpeg(t)

	path := makeTestVideo(t)
	output := filepath.Join(t.TempDir(), "thumb.jpg")

	err := newTestExecutor(t).GenerateThumbnail(context.Background(), path, output, 5*time.Second, 32)
	if err != nil {
		t.Fatalf("GenerateThumbnail failed: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("thumbnail was not created: %v", err)
	}
}

func TestFilterBuilder(t *testing.T) {
	filter := NewFilterBuilder().SelectRange(5, 10).Scale(32, 24).Build()

	expected := `select=between(n\,5\,9),scale=32:24`
	if filter != expected {
		t.Errorf("expected %q, got %q", expected, filter)
	}
}

func TestFilterBuilderEmpty(t *testing.T) {
	filter := NewFilterBuilder().Build()

	if filter != "" {
		t.Errorf("expected empty string, got %q", filter)
	}
}

func TestFilterBuilderSkipsInvalid(t *testing.T) {
	filter := NewFilterBuilder().SelectRange(10, 10).Scale(0, 24).Custom("hflip").Build()

	if filter != "hflip" {
		t.Errorf("expected %q, got %q", "hflip", filter)
	}
}

func TestStreamOutputProgress(t *testing.T) {
	e := &Executor{logger: zerolog.Nop()}

	input := strings.Join([]string{
		"frame=12",
		"fps=24.5",
		"bitrate=N/A",
		"out_time=00:00:00.480000",
		"speed=2.1x",
		"progress=continue",
		"frame=0",
		"progress=end",
	}, "\n")

	var got []Progress
	var lines int
	e.streamOutput(strings.NewReader(input), func(p *Progress) {
		got = append(got, *p)
	}, func(string) {
		lines++
	})

	if lines != 8 {
		t.Errorf("expected 8 log lines, got %d", lines)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 progress update, got %d", len(got))
	}
	want := Progress{Frame: 12, FPS: 24.5, Bitrate: "N/A", Time: "00:00:00.480000", Speed: "2.1x"}
	if got[0] != want {
		t.Errorf("expected %+v, got %+v", want, got[0])
	}
}

// TestMain runs after all tests and prints summary
func TestMain(m *testing.M) {
	code := m.Run()

	printTestSummary()

	os.Exit(code)
}

func printTestSummary() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("🎬 TEST SUMMARY - FFmpeg Layer")
	fmt.Println(strings.Repeat("=", 80))

	if globalResults.ExecutorPath != "" {
		fmt.Printf("\n✓ FFmpeg Binary: %s\n", globalResults.ExecutorPath)
	}

	if globalResults.ProbeResults != nil {
		fmt.Println("\n📹 VIDEO PROBE RESULTS:")
		fmt.Printf("  Resolution:    %dx%d @ %.2f fps\n",
			globalResults.ProbeResults.Width,
			globalResults.ProbeResults.Height,
			globalResults.ProbeResults.FPS)
		fmt.Printf("  Frames:        %d\n", globalResults.ProbeResults.FrameCount)
		fmt.Printf("  Duration:      %v\n", globalResults.ProbeResults.Duration)
		fmt.Printf("  Video Codec:   %s\n", globalResults.ProbeResults.VideoCodec)
		fmt.Printf("  Probe Time:    %v\n", globalResults.TestDuration)
	}

	fmt.Println("\n🎬 PROCESSING RESULTS:")
	if globalResults.ClipCreated {
		fmt.Println("  ✓ Clip Extraction:  SUCCESS")
	} else {
		fmt.Println("  ✗ Clip Extraction:  FAILED")
	}
	fmt.Printf("  🎞️  Frames Decoded:   %d\n", globalResults.FramesRead)

	if len(globalResults.Errors) > 0 {
		fmt.Println("\n❌ ERRORS ENCOUNTERED:")
		for i, err := range globalResults.Errors {
			fmt.Printf("  %d. %s\n", i+1, err)
		}
	} else {
		fmt.Println("\n✅ ALL TESTS PASSED - No critical errors")
	}

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}
