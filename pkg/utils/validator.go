package utils

import (
	"context"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("video_ext", func(fl validator.FieldLevel) bool {
		return AllowedVideoFile(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

// ValidateStruct runs the struct's validate tags, including video_ext.
func ValidateStruct(ctx context.Context, s interface{}) error {
	return validate.StructCtx(ctx, s)
}
