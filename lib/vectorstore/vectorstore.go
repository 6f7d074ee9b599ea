package vectorstore

import (
	"context"
	"math"

	"github.com/oleiade/lane/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/cheeky/lib/llm"
	"github.com/pescuma/cheeky/lib/model"
	"github.com/pescuma/cheeky/lib/storages"
)

// Store indexes the chunks of a single commit and finds the ones closest to a query.
type Store struct {
	storage    storages.Storage
	embedder   llm.Embedder
	commitHash string
}

func New(storage storages.Storage, embedder llm.Embedder, commitHash string) *Store {
	return &Store{
		storage:    storage,
		embedder:   embedder,
		commitHash: commitHash,
	}
}

func (s *Store) AddChunks(ctx context.Context, chunks []*model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := lo.Map(chunks, func(c *model.Chunk, _ int) string { return c.Text })

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return errors.Wrap(err, "error computing embeddings")
	}

	for i, c := range chunks {
		c.Embedding = vectors[i]
	}

	return s.storage.WriteChunks(s.commitHash, chunks)
}

// Search returns up to k chunks of source, most similar to query first.
func (s *Store) Search(ctx context.Context, query string, k int, source string) ([]*model.Chunk, error) {
	if k <= 0 {
		return nil, nil
	}

	candidates, err := s.storage.LoadChunks(s.commitHash, source)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, errors.Wrap(err, "error computing query embedding")
	}

	queue := lane.NewMaxPriorityQueue[*model.Chunk, float64]()
	for _, c := range candidates {
		queue.Push(c, CosineSimilarity(vectors[0], c.Embedding))
	}

	result := make([]*model.Chunk, 0, k)
	for len(result) < k {
		c, _, ok := queue.Pop()
		if !ok {
			break
		}

		result = append(result, c)
	}

	return result, nil
}

// Clear drops everything indexed for the commit.
func (s *Store) Clear() error {
	return s.storage.DeleteChunks(s.commitHash)
}

// CosineSimilarity returns 0 when the vectors have different sizes or one of them is zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
