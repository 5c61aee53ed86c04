package service

import "context"

// ImageGenerator calls an external capability that turns a text prompt into a
// hosted image. Implementations must enforce an explicit timeout on the
// outbound call; the transport default is not trusted.
type ImageGenerator interface {
	// Generate returns the URL of an image produced from the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
