package commentary

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrFrameTimeout      = errors.New("commentary: frame analysis timed out")
	ErrMalformedResponse = errors.New("commentary: malformed model response")
	ErrUnavailable       = errors.New("commentary: service unavailable")
)

// classify maps an analyzer failure onto one of the provider error kinds.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrFrameTimeout), errors.Is(err, ErrMalformedResponse), errors.Is(err, ErrUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrFrameTimeout, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
