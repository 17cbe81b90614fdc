// Package ui renders reports and progress for the terminal.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/keagan/shotcut/internal/ffmpeg"
	"github.com/keagan/shotcut/internal/pipeline"
	"github.com/keagan/shotcut/internal/shot"
	"github.com/keagan/shotcut/pkg/util"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by WriteReport.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var (
	infoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Bold(true)

	cutStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	gradualStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)
)

// WriteReport writes report to w in the given format.
func WriteReport(w io.Writer, report *pipeline.Report, format string) error {
	if format == "" || strings.EqualFold(format, FormatTable) {
		_, err := io.WriteString(w, RenderReport(report))
		return err
	}
	return Encode(w, report, format)
}

// Encode writes v as indented JSON or YAML.
func Encode(w io.Writer, v any, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s or %s)", format, FormatTable, FormatJSON, FormatYAML)
	}
}

// RenderReport formats a report as a summary box followed by the boundary
// and shot listings.
func RenderReport(report *pipeline.Report) string {
	res := report.Result

	summary := []string{
		row("🎬 Input:", filepath.Base(report.Input)),
		row("🪟 Window:", fmt.Sprintf("frames %d-%d, tolerance %d", res.Window.Start, res.Window.End-1, res.Window.Tolerance)),
		row("📊 Mean / SD:", fmt.Sprintf("%.2f / %.2f", res.Stats.Mean, res.Stats.StdDev)),
		row("✂️  Cut threshold:", fmt.Sprintf("%.2f", res.Thresholds.Cut)),
		row("🌗 Gradual threshold:", fmt.Sprintf("%.2f", res.Thresholds.Gradual)),
		row("🔎 Found:", fmt.Sprintf("%d cuts, %d gradual, %d shots", len(res.Cuts()), len(res.Gradual()), len(report.Shots))),
		row("⏱️  Elapsed:", report.Elapsed.Round(time.Millisecond).String()),
	}
	if res.Thresholds.Inverted() {
		summary = append(summary, ErrorStyle.Render("gradual threshold exceeds cut threshold"))
	}

	var b strings.Builder
	b.WriteString(infoStyle.Render(strings.Join(summary, "\n")))
	b.WriteString("\n")

	b.WriteString(TitleStyle.Render("Boundaries"))
	b.WriteString("\n")
	if len(res.Boundaries) == 0 {
		b.WriteString("  none\n")
	}
	for _, bd := range res.Boundaries {
		fmt.Fprintf(&b, "  %s %6d - %-6d %s\n", kindLabel(bd.Kind), bd.Start, bd.End, timeRange(bd.Start, bd.End+1, report.FPS))
	}

	b.WriteString("\n")
	b.WriteString(TitleStyle.Render("Shots"))
	b.WriteString("\n")
	for _, c := range report.Shots {
		fmt.Fprintf(&b, "  %s %6d - %-6d %s\n", c.ID, c.StartFrame, c.EndFrame, timeRange(c.StartFrame, c.EndFrame+1, report.FPS))
	}

	return b.String()
}

// DisplayVideoInfo formats probed metadata in the summary box style.
func DisplayVideoInfo(info *ffmpeg.VideoInfo) string {
	lines := []string{
		row("📁 File:", filepath.Base(info.FilePath)),
		row("📐 Dimensions:", fmt.Sprintf("%dx%d", info.Width, info.Height)),
		row("🎞️  Frames:", fmt.Sprintf("%d @ %.3f fps", info.FrameCount, info.FPS)),
		row("⏱️  Duration:", FormatDuration(info.Duration)),
		row("🎬 Codec:", fmt.Sprintf("%s (%s)", info.VideoCodec, info.PixFmt)),
		row("⚡ Bitrate:", formatBitrate(info.Bitrate)),
	}
	if info.HasAudio {
		lines = append(lines, row("🔊 Audio:", info.AudioCodec))
	}
	return infoStyle.Render(strings.Join(lines, "\n"))
}

// FormatDuration renders d as MM:SS.mmm, with hours when needed.
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	ms %= 1000
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms)
	}
	return fmt.Sprintf("%02d:%02d.%03d", m, s, ms)
}

func row(label, value string) string {
	return labelStyle.Render(label) + " " + value
}

func kindLabel(k shot.Kind) string {
	switch k {
	case shot.KindCut:
		return cutStyle.Render(fmt.Sprintf("%-7s", k))
	case shot.KindGradual:
		return gradualStyle.Render(fmt.Sprintf("%-7s", k))
	default:
		return fmt.Sprintf("%-7s", k)
	}
}

// timeRange renders the span of frames [start, end) in time; empty without fps.
func timeRange(start, end int, fps float64) string {
	if fps <= 0 {
		return ""
	}
	return fmt.Sprintf("(%s - %s)", FormatDuration(util.FrameToDuration(start, fps)), FormatDuration(util.FrameToDuration(end, fps)))
}

func formatBitrate(bitrate int64) string {
	if bitrate == 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%.1f kbps", float64(bitrate)/1000)
}
