package splitter

import (
	"strings"
	"testing"

	"github.com/bloomberg/go-testgroup"

	"github.com/pescuma/cheeky/lib/model"
)

func TestSplitter(t *testing.T) {
	testgroup.RunInParallel(t, &SplitterTests{})
}

type SplitterTests struct {
}

func (g *SplitterTests) Defaults(t *testgroup.T) {
	s := New()

	t.Equal(2000, s.ChunkSize)
	t.Equal(100, s.ChunkOverlap)
	t.Equal([]string{"\n\n", "\n", " ", ""}, s.Separators)
}

func (g *SplitterTests) SmallTextIsOneChunk(t *testgroup.T) {
	t.Equal([]string{"hello world"}, New().SplitText("  hello world\n"))
}

func (g *SplitterTests) EmptyText(t *testgroup.T) {
	t.Empty(New().SplitText(""))
	t.Empty(New().SplitText("   \n\n  "))
}

func (g *SplitterTests) ChunksRespectSize(t *testgroup.T) {
	s := &Splitter{ChunkSize: 10, ChunkOverlap: 5, Separators: DefaultSeparators}

	chunks := s.SplitText("aaaa bbbb cccc dddd eeee")

	t.Equal([]string{"aaaa bbbb", "bbbb cccc", "cccc dddd", "dddd eeee"}, chunks)
}

func (g *SplitterTests) PrefersParagraphs(t *testgroup.T) {
	s := &Splitter{ChunkSize: 12, ChunkOverlap: 0, Separators: DefaultSeparators}

	chunks := s.SplitText("first para\n\nsecond one")

	t.Equal([]string{"first para", "second one"}, chunks)
}

func (g *SplitterTests) FallsBackToCharacters(t *testgroup.T) {
	s := &Splitter{ChunkSize: 4, ChunkOverlap: 0, Separators: DefaultSeparators}

	chunks := s.SplitText("abcdefghij")

	t.Equal([]string{"abcd", "efgh", "ij"}, chunks)
}

func (g *SplitterTests) LargeText(t *testgroup.T) {
	line := strings.Repeat("x", 79) + "\n"
	text := strings.Repeat(line, 100)

	chunks := New().SplitText(text)

	t.Greater(len(chunks), 3)
	for _, c := range chunks {
		t.LessOrEqual(len(c), 2000)
	}
}

func (g *SplitterTests) DocumentsKeepSource(t *testgroup.T) {
	s := &Splitter{ChunkSize: 10, ChunkOverlap: 0, Separators: DefaultSeparators}

	chunks := s.SplitDocuments([]*model.Document{
		model.NewDocument("./a.go", "aaaa bbbb cccc"),
		model.NewDocument("./b.go", "dd"),
	})

	t.Len(chunks, 3)
	t.Equal("./a.go", chunks[0].Source)
	t.Equal("./a.go", chunks[1].Source)
	t.Equal("./b.go", chunks[2].Source)
	t.Equal("dd", chunks[2].Text)
	t.NotEqual(chunks[0].ID, chunks[1].ID)
}
