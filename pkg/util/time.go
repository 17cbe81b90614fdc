package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatDuration converts time.Duration to ffmpeg timestamp format
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
}

// ParseTimestamp parses a timestamp string (HH:MM:SS.mmm or SS.mmm or MM:SS)
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp format: %s", s)
	}

	// fold right to left: seconds, minutes, hours
	var total float64
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid timestamp format: %s", s)
		}
		total = total*60 + v
	}

	return time.Duration(total * float64(time.Second)), nil
}

// ParseFrameRate parses frame rate from ffprobe format (e.g., "30/1")
func ParseFrameRate(s string) float64 {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}

// FrameToDuration returns the presentation time of frame at fps.
func FrameToDuration(frame int, fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(math.Round(float64(frame) / fps * float64(time.Second)))
}

// DurationToFrame returns the frame shown at d, rounding to the nearest frame.
func DurationToFrame(d time.Duration, fps float64) int {
	if fps <= 0 || d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * fps))
}

// ParsePosition reads a frame position given either as a frame number
// ("120") or as a timestamp ("00:00:04.8", "4.8s"). Timestamps need fps.
func ParsePosition(s string, fps float64) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty position")
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative frame %d", n)
		}
		return n, nil
	}

	if fps <= 0 {
		return 0, fmt.Errorf("timestamp %q needs a known frame rate", s)
	}

	d, err := ParseTimestamp(strings.TrimSuffix(s, "s"))
	if err != nil {
		return 0, err
	}
	return DurationToFrame(d, fps), nil
}
