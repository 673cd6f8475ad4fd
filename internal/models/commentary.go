package models

type Category string

const (
	CategoryTechnical    Category = "technical"
	CategoryTactical     Category = "tactical"
	CategoryMotivational Category = "motivational"
)

// CommentaryEvent is a coaching remark anchored to a point on the video timeline.
// Fallback is set when the event was substituted instead of produced by the model.
type CommentaryEvent struct {
	Action    string   `json:"action" validate:"required"`
	Feedback  string   `json:"feedback" validate:"required"`
	Timestamp float64  `json:"timestamp" validate:"gte=0"`
	Category  Category `json:"commentary_type"`
	Fallback  bool     `json:"fallback"`
}

func NewFallbackEvent(action, feedback string, timestamp float64, category Category) CommentaryEvent {
	return CommentaryEvent{
		Action:    action,
		Feedback:  feedback,
		Timestamp: timestamp,
		Category:  category,
		Fallback:  true,
	}
}
