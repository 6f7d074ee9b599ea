package storages

import (
	"github.com/pescuma/cheeky/lib/model"
)

// Storage keeps the chunks indexed for each commit and the summaries already generated.
type Storage interface {
	LoadChunks(commitHash string, source string) ([]*model.Chunk, error)
	WriteChunks(commitHash string, chunks []*model.Chunk) error
	DeleteChunks(commitHash string) error

	// LoadSummary returns nil when there is no summary of the commit made by that model.
	LoadSummary(commitHash string, modelName string) (*model.Summary, error)
	WriteSummary(summary *model.Summary) error

	Close() error
}

type Factory = func(path string) (Storage, error)
