package ui

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Progress is a themed progress bar counting processed items.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a bar for total items on out (stderr when nil). A
// total of -1 renders a spinner.
func NewProgress(total int, description string, out io.Writer) *Progress {
	if out == nil {
		out = os.Stderr
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(out, "\n")
		}),
	)

	return &Progress{bar: bar}
}

// Frame records one processed frame. Safe for concurrent use, so it can be
// passed straight to the shot engine.
func (p *Progress) Frame(int) {
	_ = p.bar.Add(1)
}

// Set moves the bar to n processed items.
func (p *Progress) Set(n int) {
	_ = p.bar.Set(n)
}

// Done completes the bar.
func (p *Progress) Done() {
	_ = p.bar.Finish()
}
