package orm

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/bloomberg/go-testgroup"
	"github.com/rs/zerolog"

	"github.com/pescuma/cheeky/lib/model"
	"github.com/pescuma/cheeky/lib/storages"
)

func TestGormStorage(t *testing.T) {
	testgroup.RunSerially(t, &GormStorageTests{})
}

type GormStorageTests struct {
	storage storages.Storage
}

func (g *GormStorageTests) PreTest(t *testgroup.T) {
	var err error
	g.storage, err = NewSqliteStorage(InMemory, zerolog.Nop())
	t.Require.NoError(err)
}

func (g *GormStorageTests) PostTest(t *testgroup.T) {
	t.NoError(g.storage.Close())
}

func (g *GormStorageTests) ChunksRoundTripInOrder(t *testgroup.T) {
	a1 := model.NewChunk("./a.go", "first")
	a1.Embedding = []float32{1, 0}
	b := model.NewChunk("./b.go", "other")
	a2 := model.NewChunk("./a.go", "second")
	a2.Embedding = []float32{0, 1}

	t.Require.NoError(g.storage.WriteChunks("c1", []*model.Chunk{a1, b}))
	t.Require.NoError(g.storage.WriteChunks("c1", []*model.Chunk{a2}))

	chunks, err := g.storage.LoadChunks("c1", "./a.go")
	t.Require.NoError(err)

	t.Require.Len(chunks, 2)
	t.Equal(a1, chunks[0])
	t.Equal(a2, chunks[1])
}

func (g *GormStorageTests) ChunksAreScopedByCommit(t *testgroup.T) {
	t.Require.NoError(g.storage.WriteChunks("c1", []*model.Chunk{model.NewChunk("./a.go", "x")}))

	chunks, err := g.storage.LoadChunks("c2", "./a.go")
	t.Require.NoError(err)

	t.Empty(chunks)
}

func (g *GormStorageTests) DeleteChunks(t *testgroup.T) {
	t.Require.NoError(g.storage.WriteChunks("c1", []*model.Chunk{model.NewChunk("./a.go", "x")}))
	t.Require.NoError(g.storage.WriteChunks("c2", []*model.Chunk{model.NewChunk("./a.go", "y")}))

	t.Require.NoError(g.storage.DeleteChunks("c1"))

	c1, err := g.storage.LoadChunks("c1", "./a.go")
	t.Require.NoError(err)
	t.Empty(c1)

	c2, err := g.storage.LoadChunks("c2", "./a.go")
	t.Require.NoError(err)
	t.Len(c2, 1)
}

func (g *GormStorageTests) MissingSummaryIsNil(t *testgroup.T) {
	summary, err := g.storage.LoadSummary("c1", "gpt")

	t.NoError(err)
	t.Nil(summary)
}

func (g *GormStorageTests) SummaryRoundTrip(t *testgroup.T) {
	summary := model.NewSummary("c1", "gpt")
	summary.Message = "- Add b"
	summary.Date = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	summary.Files = []*model.FileSummary{
		{Path: "b.go", Text: "added b"},
		{Path: "a.go", Text: "changed a"},
	}

	t.Require.NoError(g.storage.WriteSummary(summary))

	loaded, err := g.storage.LoadSummary("c1", "gpt")
	t.Require.NoError(err)
	t.Require.NotNil(loaded)

	t.Equal("- Add b", loaded.Message)
	t.Equal(summary.Files, loaded.Files)
	t.True(summary.Date.Equal(loaded.Date))

	other, err := g.storage.LoadSummary("c1", "llama")
	t.Require.NoError(err)
	t.Nil(other)
}

func (g *GormStorageTests) SummaryOverwrite(t *testgroup.T) {
	summary := model.NewSummary("c1", "gpt")
	summary.Message = "old"
	t.Require.NoError(g.storage.WriteSummary(summary))

	summary.Message = "new"
	t.Require.NoError(g.storage.WriteSummary(summary))

	loaded, err := g.storage.LoadSummary("c1", "gpt")
	t.Require.NoError(err)
	t.Equal("new", loaded.Message)
}

func TestSqliteFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cheeky.db")

	s, err := NewSqliteStorage(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	summary := model.NewSummary("c1", "gpt")
	summary.Message = "kept"
	if err := s.WriteSummary(summary); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = NewSqliteStorage(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	loaded, err := s.LoadSummary("c1", "gpt")
	if err != nil {
		t.Fatal(err)
	}
	if loaded == nil || loaded.Message != "kept" {
		t.Fatalf("summary not persisted: %v", loaded)
	}
}
