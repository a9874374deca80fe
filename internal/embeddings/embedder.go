package embeddings

import "context"

// Embedder defines the interface for generating text embeddings.
//
// The index scores vectors by inner product, so everything that goes into it
// must be unit length. Callers pass Embed output through Normalize before
// handing it to the index; providers that already normalize make that a no-op.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}
