package embed

import (
	"context"
)

// Embedder turns text into a dense vector. Implementations must be safe for
// concurrent use; the router and the search client share one instance.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
