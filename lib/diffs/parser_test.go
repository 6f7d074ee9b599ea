package diffs

import (
	"testing"

	"github.com/bloomberg/go-testgroup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pescuma/cheeky/lib/model"
)

func TestParseFileDiffs(t *testing.T) {
	testgroup.RunInParallel(t, &ParseFileDiffsTests{})
}

type ParseFileDiffsTests struct {
}

func (g *ParseFileDiffsTests) SingleBlock(t *testgroup.T) {
	diff := "diff --git a/x b/y\n" +
		"index 1..2 100644\n" +
		"--- a/x\n" +
		"+++ b/y\n" +
		"@@ -1 +1 @@\n" +
		"-a\n" +
		"+b\n"

	result := ParseFileDiffs(diff)

	t.Equal(map[string]string{"y": diff}, result)
}

func (g *ParseFileDiffsTests) MultipleBlocks(t *testgroup.T) {
	first := "diff --git a/a.go b/a.go\n--- a/a.go\n+++ b/a.go\n+x\n"
	second := "diff --git a/b.go b/b.go\n--- a/b.go\n+++ b/b.go\n-y\n"

	result := ParseFileDiffs(first + second)

	t.Len(result, 2)
	t.Equal(first, result["a.go"])
	t.Equal(second, result["b.go"])
}

func (g *ParseFileDiffsTests) DropsLinesBeforeFirstHeader(t *testgroup.T) {
	result := ParseFileDiffs("garbage\nmore garbage\ndiff --git a/z b/z\n+1\n")

	t.Equal(map[string]string{"z": "diff --git a/z b/z\n+1\n"}, result)
}

func (g *ParseFileDiffsTests) KeyIsTheNewPath(t *testgroup.T) {
	result := ParseFileDiffs("diff --git a/old/name.txt b/new/name.txt\n")

	t.Contains(result, "new/name.txt")
	t.NotContains(result, "old/name.txt")
}

func (g *ParseFileDiffsTests) Empty(t *testgroup.T) {
	t.Empty(ParseFileDiffs(""))
	t.Empty(ParseFileDiffs("no headers here\n"))
}

func TestExtractChanges(t *testing.T) {
	testgroup.RunInParallel(t, &ExtractChangesTests{})
}

type ExtractChangesTests struct {
}

func (g *ExtractChangesTests) Added(t *testgroup.T) {
	result := ExtractChanges("diff --git a/new.txt b/new.txt\nnew file mode 100644\n--- /dev/null\n+++ b/new.txt\n+hi\n")

	t.Equal([]*model.FileChange{{Type: model.FileAdded, Path: "new.txt"}}, result.List)
	t.Equal([]string{"new.txt"}, result.Files)
	t.Empty(result.ByType(model.FileUnchanged))
	t.Empty(result.ByType(model.FileRenamed))
}

func (g *ExtractChangesTests) Unchanged(t *testgroup.T) {
	result := ExtractChanges("--- a/p\n+++ b/p\n")

	t.Equal([]*model.FileChange{{Type: model.FileUnchanged, Path: "p"}}, result.List)
	t.Equal([]string{"p"}, result.Files)
	t.Empty(result.Notable())
}

func (g *ExtractChangesTests) Renamed(t *testgroup.T) {
	result := ExtractChanges("--- a/old\n+++ b/new\n")

	t.Equal([]*model.FileChange{{Type: model.FileRenamed, Path: "new", OldPath: "old"}}, result.List)
	t.Equal([]string{"new"}, result.Files)
}

func (g *ExtractChangesTests) Removed(t *testgroup.T) {
	result := ExtractChanges("diff --git a/old b/old\ndeleted file mode 100644\n--- a/old\n+++ /dev/null\n-bye\n")

	t.Equal([]*model.FileChange{{Type: model.FileRemoved, Path: "old"}}, result.List)
	t.Empty(result.Files)
	t.Empty(result.ByType(model.FileAdded))
}

func (g *ExtractChangesTests) Mixed(t *testgroup.T) {
	diff := "--- a/z.go\n+++ b/z.go\n" +
		"--- /dev/null\n+++ b/b.go\n" +
		"--- a/gone.go\n+++ /dev/null\n" +
		"--- a/before.go\n+++ b/after.go\n" +
		"--- /dev/null\n+++ b/a.go\n"

	result := ExtractChanges(diff)

	t.Equal([]string{"a.go", "after.go", "b.go", "z.go"}, result.Files)
	t.Equal([]*model.FileChange{
		{Type: model.FileAdded, Path: "a.go"},
		{Type: model.FileAdded, Path: "b.go"},
		{Type: model.FileRenamed, Path: "after.go", OldPath: "before.go"},
		{Type: model.FileRemoved, Path: "gone.go"},
		{Type: model.FileUnchanged, Path: "z.go"},
	}, result.List)
}

func (g *ExtractChangesTests) TrimsWhitespace(t *testgroup.T) {
	result := ExtractChanges("--- a/p \r\n+++ b/p\t\r\n")

	t.Equal([]string{"p"}, result.Files)
}

func (g *ExtractChangesTests) Malformed(t *testgroup.T) {
	result := ExtractChanges("+++ garbage\n--- \n@@ nonsense")

	t.Empty(result.List)
	t.Empty(result.Files)
}

func TestParse(t *testing.T) {
	t.Parallel()

	added := "diff --git a/n.txt b/n.txt\n--- /dev/null\n+++ b/n.txt\n+1\n"
	removed := "diff --git a/o.txt b/o.txt\n--- a/o.txt\n+++ /dev/null\n-1\n"

	result := Parse(added + removed)

	require.Len(t, result.List, 2)
	assert.Equal(t, added, result.List[0].Fragment)
	assert.Equal(t, removed, result.List[1].Fragment)
}

func TestClean(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `x = '''doc'''`, Clean(`x = """doc"""`))
	assert.Equal(t, `C:\\dir`, Clean(`C:\\\\dir`))
	assert.Equal(t, "untouched", Clean("untouched"))
}
