package analysis

import (
	"context"
	"io"
	"time"
)

type AWSRepository interface {
	PutObject(ctx context.Context, input PutObjectInput) error
	GetPresignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

type PutObjectInput struct {
	Bucket      string
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}
