package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapText_LongFeedback(t *testing.T) {
	words := make([]string, 26)
	for i := range words {
		words[i] = "abcd"
	}
	words[0] = "abcde"
	text := strings.Join(words, " ")
	require.Len(t, text, 130)

	lines := WrapText(text, 60)

	assert.Greater(t, len(lines), 1)
	var rejoined []string
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 60)
		assert.NotEmpty(t, l)
		rejoined = append(rejoined, strings.Fields(l)...)
	}
	assert.Equal(t, words, rejoined)
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"short", "Great defensive stance!", 60, []string{"Great defensive stance!"}},
		{"exactly width", strings.Repeat("a", 60), 60, []string{strings.Repeat("a", 60)}},
		{"greedy", "aaa bbb ccc ddd", 8, []string{"aaa bbb", "ccc ddd"}},
		{"boundary is exclusive", "aaa bbbb cc", 8, []string{"aaa", "bbbb cc"}},
		{"overlong word kept whole", "a " + strings.Repeat("x", 12) + " b", 8, []string{"a", strings.Repeat("x", 12), "b"}},
		{"collapses extra spaces", "aaa    bbb   ccc", 8, []string{"aaa bbb", "ccc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapText(tt.text, tt.width))
		})
	}
}
