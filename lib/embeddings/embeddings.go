package embeddings

import (
	"github.com/pescuma/cheeky/lib/llm"
)

// HashModel selects the local HashEmbedder instead of a remote embedding model.
const HashModel = "hash"

// New returns the embedder for model, memoized. remote is only used when the model is not HashModel.
func New(model string, remote llm.Embedder) llm.Embedder {
	var inner llm.Embedder
	if model == HashModel || remote == nil {
		inner = NewHashEmbedder()
	} else {
		inner = remote
	}

	return NewCached(inner)
}
