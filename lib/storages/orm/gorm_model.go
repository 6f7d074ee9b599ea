package orm

import (
	"time"

	"github.com/pescuma/cheeky/lib/model"
)

type sqlTable interface {
	CacheKey() string
}

type sqlChunk struct {
	ID         model.UUID
	CommitHash string `gorm:"index:idx_chunk_source"`
	Source     string `gorm:"index:idx_chunk_source"`
	Seq        int
	Text       string
	Embedding  []float32 `gorm:"serializer:json"`

	CreatedAt time.Time
}

func newSqlChunk(commitHash string, seq int, c *model.Chunk) *sqlChunk {
	return &sqlChunk{
		ID:         c.ID,
		CommitHash: commitHash,
		Source:     c.Source,
		Seq:        seq,
		Text:       c.Text,
		Embedding:  c.Embedding,
	}
}

func (s *sqlChunk) CacheKey() string {
	return string(s.ID)
}

func (s *sqlChunk) toModel() *model.Chunk {
	return &model.Chunk{
		ID:        s.ID,
		Source:    s.Source,
		Text:      s.Text,
		Embedding: s.Embedding,
	}
}

type sqlSummary struct {
	CommitHash string `gorm:"primaryKey"`
	Model      string `gorm:"primaryKey"`
	Message    string
	Files      map[string]string `gorm:"serializer:json"`
	FileOrder  []string          `gorm:"serializer:json"`
	Date       time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSqlSummary(s *model.Summary) *sqlSummary {
	files, order := encodeFileSummaries(s.Files)

	return &sqlSummary{
		CommitHash: s.CommitHash,
		Model:      s.Model,
		Message:    s.Message,
		Files:      files,
		FileOrder:  order,
		Date:       s.Date,
	}
}

func (s *sqlSummary) CacheKey() string {
	return compositeKey(s.CommitHash, s.Model)
}

func (s *sqlSummary) toModel() *model.Summary {
	return &model.Summary{
		CommitHash: s.CommitHash,
		Model:      s.Model,
		Message:    s.Message,
		Files:      decodeFileSummaries(s.Files, s.FileOrder),
		Date:       s.Date,
	}
}
