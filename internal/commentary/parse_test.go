package commentary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/amankumarsingh77/hoopcast/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("embedded object", func(t *testing.T) {
		ev, err := ParseResponse(ctx, "Sure! "+`{"action":"Pick and roll","feedback":"Set a wider screen","timestamp":1,"commentary_type":"tactical"}`, 3.5)
		require.NoError(t, err)
		assert.Equal(t, "Pick and roll", ev.Action)
		assert.Equal(t, "Set a wider screen", ev.Feedback)
		assert.Equal(t, 3.5, ev.Timestamp)
		assert.Equal(t, models.CategoryTactical, ev.Category)
		assert.False(t, ev.Fallback)
	})

	t.Run("missing category defaults to technical", func(t *testing.T) {
		ev, err := ParseResponse(ctx, `{"action":"Free throw","feedback":"Bend the knees"}`, 0)
		require.NoError(t, err)
		assert.Equal(t, models.CategoryTechnical, ev.Category)
	})

	tests := []struct {
		name string
		text string
	}{
		{"no object", "just prose"},
		{"broken json", `{"action": "x",`},
		{"missing feedback", `{"action":"Dunk"}`},
		{"blank action", `{"action":"  ","feedback":"ok"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(ctx, tt.text, 1)
			assert.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestRecoverFromText(t *testing.T) {
	long := strings.Repeat("x", 500)

	ev, ok := RecoverFromText(long, 2.25)
	require.True(t, ok)
	assert.Equal(t, "Basketball analysis at 2.2s", ev.Action)
	assert.Equal(t, strings.Repeat("x", 200)+"...", ev.Feedback)
	assert.True(t, ev.Fallback)

	ev, ok = RecoverFromText("{"+long+"}", 4)
	require.True(t, ok)
	assert.Equal(t, "Basketball action at 4.0s", ev.Action)
	assert.Len(t, ev.Feedback, 300)

	_, ok = RecoverFromText(" \n ", 1)
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	ctx := context.Background()
	assert.True(t, errors.Is(classify(ctx, context.DeadlineExceeded), ErrFrameTimeout))
	assert.True(t, errors.Is(classify(ctx, errors.New("boom")), ErrUnavailable))
	assert.True(t, errors.Is(classify(ctx, ErrMalformedResponse), ErrMalformedResponse))

	expired, cancel := context.WithTimeout(ctx, 0)
	defer cancel()
	<-expired.Done()
	assert.True(t, errors.Is(classify(expired, errors.New("rpc error: code = DeadlineExceeded")), ErrFrameTimeout))
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(2, 8, 2.466, 10)
	assert.Contains(t, p, "Frame 3 of 8")
	assert.Contains(t, p, "Timestamp: 2.5 seconds")
	assert.Contains(t, p, "Video duration: 10.0 seconds")
	assert.Contains(t, p, `"commentary_type": "technical"`)
}
