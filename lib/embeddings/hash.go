package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const DefaultHashDimensions = 256

// HashEmbedder builds bag-of-words vectors locally by hashing tokens into a fixed number of
// buckets. It needs no service, which makes it the embedder for offline and simulated runs.
type HashEmbedder struct {
	Dimensions int
}

func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{
		Dimensions: DefaultHashDimensions,
	}
}

func (h *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result[i] = h.embed(text)
	}
	return result, nil
}

func (h *HashEmbedder) embed(text string) []float32 {
	result := make([]float32, h.Dimensions)

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	for _, token := range tokens {
		hasher := fnv.New32a()
		_, _ = hasher.Write([]byte(token))
		sum := hasher.Sum32()

		bucket := int(sum % uint32(h.Dimensions))
		if sum&(1<<31) != 0 {
			result[bucket]--
		} else {
			result[bucket]++
		}
	}

	normalize(result)
	return result
}

func normalize(v []float32) {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return
	}

	norm = math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}
