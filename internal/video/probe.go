package video

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/amankumarsingh77/hoopcast/internal/models"
)

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	NbFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
	Tags         struct {
		Rotate string `json:"rotate"`
	} `json:"tags"`
	SideData []struct {
		Rotation float64 `json:"rotation"`
	} `json:"side_data_list"`
}

// rotation returns the display rotation in degrees, from the display matrix
// side data or, for older muxers, the rotate tag.
func (s *probeStream) rotation() int {
	for _, sd := range s.SideData {
		if sd.Rotation != 0 {
			return int(math.Round(sd.Rotation))
		}
	}
	r, _ := strconv.Atoi(s.Tags.Rotate)
	return r
}

// ParseFrameRate turns an ffprobe rational such as "30000/1001" into frames per second.
func ParseFrameRate(fraction string) float64 {
	if fraction == "" || fraction == "0/0" {
		return 0
	}
	var num, den int
	if _, err := fmt.Sscanf(fraction, "%d/%d", &num, &den); err == nil && den > 0 {
		return float64(num) / float64(den)
	}
	return 0
}

// ParseProbeOutput extracts metadata of the first video stream from ffprobe JSON.
// The frame count falls back to duration*fps when the container does not record it.
// Width and height are the displayed size: a stream rotated by 90 or 270
// degrees has them swapped, matching the frames ffmpeg decodes with autorotate.
func ParseProbeOutput(data []byte) (models.VideoMetadata, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return models.VideoMetadata{}, fmt.Errorf("failed to parse probe output: %w", err)
	}

	var stream *probeStream
	for i := range out.Streams {
		if out.Streams[i].CodecType == "" || out.Streams[i].CodecType == "video" {
			stream = &out.Streams[i]
			break
		}
	}
	if stream == nil {
		return models.VideoMetadata{}, fmt.Errorf("no video stream found")
	}

	fps := ParseFrameRate(stream.AvgFrameRate)
	if fps <= 0 {
		fps = ParseFrameRate(stream.RFrameRate)
	}

	total, _ := strconv.Atoi(stream.NbFrames)
	if total <= 0 && fps > 0 {
		duration := parseSeconds(stream.Duration)
		if duration <= 0 {
			duration = parseSeconds(out.Format.Duration)
		}
		total = int(math.Round(duration * fps))
	}

	width, height := stream.Width, stream.Height
	if r := stream.rotation() % 180; r == 90 || r == -90 {
		width, height = height, width
	}
	return models.NewVideoMetadata(fps, width, height, total), nil
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
