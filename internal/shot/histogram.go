// Package shot detects shot boundaries (abrupt cuts and gradual transitions)
// from intensity histograms of consecutive frames.
package shot

import (
	"math"

	"github.com/keagan/shotcut/internal/frames"
)

const (
	// HistogramBins is the number of columns in a histogram row. Column 0 is
	// reserved and never counted; columns 1..25 hold luma buckets of width 10,
	// with column 25 collecting everything from 240 up.
	HistogramBins = 26

	brightBin  = HistogramBins - 1
	bucketSize = 10
)

// Histogram is one row of the intensity table.
type Histogram [HistogramBins]int

// Total returns the number of counted pixels (columns 1..25).
func (h *Histogram) Total() int {
	total := 0
	for j := 1; j < HistogramBins; j++ {
		total += h[j]
	}
	return total
}

// Table holds one histogram per analyzed frame. Row 0 is reserved and stays
// empty; frame k of the window (1-based) lives in row k.
type Table []Histogram

// NewTable allocates a table for n frames plus the reserved row.
func NewTable(n int) Table {
	if n < 0 {
		n = 0
	}
	return make(Table, n+1)
}

// Fill computes the histogram of f into row. Concurrent calls are safe as long
// as every caller targets a different row.
func (t Table) Fill(row int, f frames.Frame) {
	Extract(f, &t[row])
}

// Extract computes the intensity histogram of f into h, overwriting it.
func Extract(f frames.Frame, h *Histogram) {
	var bins Histogram

	width, height := f.Width(), f.Height()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := f.RGB(x, y)
			bucket := lumaBucket(r, g, b)
			if bucket >= brightBin-1 {
				bins[brightBin]++
			} else {
				bins[bucket+1]++
			}
		}
	}

	h[0] = 0
	for j := 1; j < HistogramBins; j++ {
		h[j] = bins[j]
	}
}

// lumaBucket returns floor(floor(I)/10) for I = 0.299R + 0.587G + 0.114B.
func lumaBucket(r, g, b uint8) int {
	// explicit conversions keep the terms from being fused into an FMA
	luma := float64(0.299*float64(r)) + float64(0.587*float64(g)) + float64(0.114*float64(b))
	return int(math.Floor(luma)) / bucketSize
}
