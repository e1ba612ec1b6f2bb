package provider

import (
	"context"
	"fmt"
)

// batchCapacity is implemented by providers with a hard per-call text limit.
type batchCapacity interface {
	Capacity() int
}

// TextEmbedder adapts a provider Embedder to the plain text-in, vectors-out
// interface the tuning domain expects, batching inputs to the provider's
// per-call capacity.
type TextEmbedder struct {
	provider  Embedder
	batchSize int
}

// NewTextEmbedder creates a TextEmbedder. The batch size comes from the
// provider's Capacity when it declares one, otherwise DefaultBatchSize.
func NewTextEmbedder(p Embedder) TextEmbedder {
	size := DefaultBatchSize
	if c, ok := p.(batchCapacity); ok && c.Capacity() > 0 {
		size = c.Capacity()
	}
	return TextEmbedder{provider: p, batchSize: size}
}

// Embed generates one embedding vector per input text, preserving order.
func (e TextEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := e.provider.Embed(ctx, NewEmbeddingRequest(texts[start:end]))
		if err != nil {
			return nil, fmt.Errorf("embed batch at %d: %w", start, err)
		}

		batch := resp.Embeddings()
		if len(batch) != end-start {
			return nil, fmt.Errorf("embed batch at %d: got %d vectors for %d texts", start, len(batch), end-start)
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}
