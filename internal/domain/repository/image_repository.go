package repository

import "context"

// ImageRepository generates an image from a text prompt and returns it as a
// base64 string or a reference URL
type ImageRepository interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
