package models

// VideoMetadata is computed once per job from the probed source.
type VideoMetadata struct {
	FPS         float64 `json:"fps"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	TotalFrames int     `json:"total_frames"`
	Duration    float64 `json:"duration"`
}

func NewVideoMetadata(fps float64, width, height, totalFrames int) VideoMetadata {
	m := VideoMetadata{
		FPS:         fps,
		Width:       width,
		Height:      height,
		TotalFrames: totalFrames,
	}
	if fps > 0 {
		m.Duration = float64(totalFrames) / fps
	}
	return m
}

// TimestampOf returns the presentation time of a frame in seconds.
func (m VideoMetadata) TimestampOf(frameIndex int) float64 {
	if m.FPS <= 0 {
		return 0
	}
	return float64(frameIndex) / m.FPS
}

// Fraction returns frameIndex/TotalFrames clamped to [0,1].
func (m VideoMetadata) Fraction(frameIndex int) float64 {
	if m.TotalFrames <= 0 {
		return 0
	}
	f := float64(frameIndex) / float64(m.TotalFrames)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

type SampledFrame struct {
	Image      []byte
	MimeType   string
	Timestamp  float64
	FrameIndex int
}
