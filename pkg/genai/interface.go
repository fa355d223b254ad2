package genai

import (
	"context"
)

type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateStructured(
		ctx context.Context,
		prompt string,
		schema Schema,
		dst any,
	) error
}
