package utils

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct_VideoExt(t *testing.T) {
	type upload struct {
		Filename string `validate:"required,video_ext"`
	}

	require.NoError(t, ValidateStruct(context.Background(), upload{Filename: "game.mov"}))

	err := ValidateStruct(context.Background(), upload{Filename: "notes.txt"})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "video_ext", verrs[0].Tag())
}
