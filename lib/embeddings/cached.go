package embeddings

import (
	"context"

	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"

	"github.com/pescuma/cheeky/lib/caches"
	"github.com/pescuma/cheeky/lib/llm"
)

// Cached remembers the vectors of texts already embedded, so only new texts reach the
// wrapped embedder. Unchanged chunks between commits are common in a branch range.
type Cached struct {
	inner llm.Embedder
	cache *caches.Cache[string, []float32]
}

func NewCached(inner llm.Embedder) *Cached {
	return &Cached{
		inner: inner,
		cache: caches.NewCache[string, []float32](),
	}
}

func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	missing := set.New[string](len(texts))
	var pending []string
	for _, text := range texts {
		if _, ok := c.cache.Peek(text); ok {
			continue
		}
		if missing.Insert(text) {
			pending = append(pending, text)
		}
	}

	loaded := map[string][]float32{}
	if len(pending) > 0 {
		vectors, err := c.inner.Embed(ctx, pending)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(pending) {
			return nil, errors.Errorf("expected %v embeddings, got %v", len(pending), len(vectors))
		}

		for i, text := range pending {
			loaded[text] = vectors[i]
		}
	}

	result := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := c.cache.Get(text, func(text string) ([]float32, error) {
			v, ok := loaded[text]
			if !ok {
				return nil, errors.Errorf("missing embedding for text")
			}
			return v, nil
		})
		if err != nil {
			return nil, err
		}

		result[i] = vector
	}

	return result, nil
}

func (c *Cached) Len() int {
	return c.cache.Len()
}
