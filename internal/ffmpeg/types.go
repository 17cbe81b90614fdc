package ffmpeg

import "time"

// VideoInfo contains metadata about a video file
type VideoInfo struct {
	FilePath   string        `json:"file_path" yaml:"file_path"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Width      int           `json:"width" yaml:"width"`
	Height     int           `json:"height" yaml:"height"`
	FPS        float64       `json:"fps" yaml:"fps"`
	FrameCount int           `json:"frame_count" yaml:"frame_count"`
	Bitrate    int64         `json:"bitrate" yaml:"bitrate"`
	VideoCodec string        `json:"video_codec" yaml:"video_codec"`
	PixFmt     string        `json:"pix_fmt" yaml:"pix_fmt"`
	HasAudio   bool          `json:"has_audio" yaml:"has_audio"`
	AudioCodec string        `json:"audio_codec,omitempty" yaml:"audio_codec,omitempty"`
}

// Progress represents ffmpeg progress data
type Progress struct {
	Frame   int
	FPS     float64
	Bitrate string
	Time    string
	Speed   string
}

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args            []string
	ProgressHandler func(*Progress)
	LogHandler      func(line string)
}

// Default encoding settings
const (
	DefaultCRF        = 23
	DefaultPreset     = "medium"
	DefaultVideoCodec = "libx264"
	DefaultAudioCodec = "aac"
)

// ProgressFunc is a callback for progress updates during ffmpeg operations.
type ProgressFunc func(*Progress)
