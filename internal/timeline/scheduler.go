// Package timeline maps timestamped commentary onto the frame axis of a video
// and decides which event is on screen for each frame of a forward scan.
package timeline

import (
	"math"

	"github.com/amankumarsingh77/hoopcast/internal/models"
)

// Window is a commentary event placed on the frame axis.
// 0 <= StartFrame <= EndFrame always holds.
type Window struct {
	Event      models.CommentaryEvent
	StartFrame int
	EndFrame   int
}

// DisplayFrames converts a display duration into a whole number of frames.
func DisplayFrames(fps, seconds float64) int {
	if fps <= 0 || seconds <= 0 {
		return 0
	}
	return int(math.Round(seconds * fps))
}

// BuildWindows places each event at round(timestamp*fps) and keeps it for
// displayFrames frames. Events with a negative or non-finite timestamp are
// dropped. Input order is preserved.
func BuildWindows(events []models.CommentaryEvent, fps float64, displayFrames int) []Window {
	if displayFrames < 0 {
		displayFrames = 0
	}
	windows := make([]Window, 0, len(events))
	for _, ev := range events {
		if math.IsNaN(ev.Timestamp) || math.IsInf(ev.Timestamp, 0) || ev.Timestamp < 0 {
			continue
		}
		start := int(math.Round(ev.Timestamp * fps))
		if start < 0 {
			continue
		}
		windows = append(windows, Window{
			Event:      ev,
			StartFrame: start,
			EndFrame:   start + displayFrames,
		})
	}
	return windows
}

// Scheduler answers Active for strictly increasing frame indexes.
// It is not safe for concurrent use.
type Scheduler struct {
	byStart map[int]int
	windows []Window
	current *Window
	expiry  int
}

func NewScheduler(windows []Window) *Scheduler {
	byStart := make(map[int]int, len(windows))
	for i, w := range windows {
		// later declarations overwrite earlier ones sharing a start frame
		byStart[w.StartFrame] = i
	}
	return &Scheduler{
		byStart: byStart,
		windows: windows,
	}
}

// Active returns the event on screen at frameIndex. An event starting on this
// frame replaces the current one; the current one is cleared once frameIndex
// passes its end frame.
func (s *Scheduler) Active(frameIndex int) (*models.CommentaryEvent, bool) {
	if i, ok := s.byStart[frameIndex]; ok {
		s.current = &s.windows[i]
		s.expiry = s.windows[i].EndFrame
	}
	if frameIndex > s.expiry {
		s.current = nil
	}
	if s.current == nil {
		return nil, false
	}
	return &s.current.Event, true
}
