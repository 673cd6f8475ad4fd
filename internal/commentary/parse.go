package commentary

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/amankumarsingh77/hoopcast/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	jsonObject = regexp.MustCompile(`(?s)\{.*\}`)
	validate   = validator.New()
)

type modelAnswer struct {
	Action         string `json:"action" validate:"required"`
	Feedback       string `json:"feedback" validate:"required"`
	CommentaryType string `json:"commentary_type"`
}

// ParseResponse reads the JSON object embedded in a model answer. The event is
// always stamped with the frame timestamp regardless of what the model echoed.
func ParseResponse(ctx context.Context, text string, timestamp float64) (models.CommentaryEvent, error) {
	raw := jsonObject.FindString(text)
	if raw == "" {
		return models.CommentaryEvent{}, fmt.Errorf("%w: no JSON object in answer", ErrMalformedResponse)
	}
	var answer modelAnswer
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		return models.CommentaryEvent{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	answer.Action = strings.TrimSpace(answer.Action)
	answer.Feedback = strings.TrimSpace(answer.Feedback)
	if err := validate.StructCtx(ctx, answer); err != nil {
		return models.CommentaryEvent{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	category := models.Category(strings.ToLower(strings.TrimSpace(answer.CommentaryType)))
	if category == "" {
		category = models.CategoryTechnical
	}
	return models.CommentaryEvent{
		Action:    answer.Action,
		Feedback:  answer.Feedback,
		Timestamp: timestamp,
		Category:  category,
	}, nil
}

// RecoverFromText turns a non-JSON answer into an event carrying the raw text.
// It returns false when there is no text worth keeping.
func RecoverFromText(text string, timestamp float64) (models.CommentaryEvent, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.CommentaryEvent{}, false
	}
	if jsonObject.MatchString(text) {
		return models.NewFallbackEvent(
			fmt.Sprintf("Basketball action at %.1fs", timestamp),
			truncate(text, 300),
			timestamp, models.CategoryTechnical), true
	}
	return models.NewFallbackEvent(
		fmt.Sprintf("Basketball analysis at %.1fs", timestamp),
		truncate(text, 200)+"...",
		timestamp, models.CategoryTechnical), true
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
