package git

import (
	"context"
	"testing"
	"time"

	"github.com/bloomberg/go-testgroup"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/rs/zerolog"

	"github.com/pescuma/cheeky/lib/diffs"
	"github.com/pescuma/cheeky/lib/model"
)

func TestRepoManager(t *testing.T) {
	testgroup.RunSerially(t, &RepoManagerTests{})
}

type RepoManagerTests struct {
	fs      billy.Filesystem
	gitRepo *git.Repository
	manager *RepoManager
	when    time.Time
}

func (g *RepoManagerTests) PreTest(t *testgroup.T) {
	g.fs = memfs.New()

	var err error
	g.gitRepo, err = git.Init(memory.NewStorage(), g.fs)
	t.Require.NoError(err)

	g.manager = NewRepoManager(g.gitRepo, "master", zerolog.Nop())
	g.when = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

func (g *RepoManagerTests) write(t *testgroup.T, path, content string) {
	f, err := g.fs.Create(path)
	t.Require.NoError(err)
	_, err = f.Write([]byte(content))
	t.Require.NoError(err)
	t.Require.NoError(f.Close())
}

func (g *RepoManagerTests) commit(t *testgroup.T, message string, change func(wt *git.Worktree)) plumbing.Hash {
	wt, err := g.gitRepo.Worktree()
	t.Require.NoError(err)

	change(wt)

	g.when = g.when.Add(time.Minute)
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: g.when},
	})
	t.Require.NoError(err)
	return hash
}

func (g *RepoManagerTests) addFile(t *testgroup.T, path, content string) func(wt *git.Worktree) {
	return func(wt *git.Worktree) {
		g.write(t, path, content)
		_, err := wt.Add(path)
		t.Require.NoError(err)
	}
}

func (g *RepoManagerTests) checkout(t *testgroup.T, branch string) {
	wt, err := g.gitRepo.Worktree()
	t.Require.NoError(err)

	t.Require.NoError(wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
	}))
}

func (g *RepoManagerTests) CurrentBranch(t *testgroup.T) {
	g.commit(t, "init", g.addFile(t, "a.txt", "a\n"))

	t.Equal("master", g.manager.CurrentBranch())

	g.checkout(t, "feature")
	t.Equal("feature", g.manager.CurrentBranch())
}

func (g *RepoManagerTests) CurrentBranchOnEmptyRepo(t *testgroup.T) {
	t.Equal("", g.manager.CurrentBranch())
	t.Empty(g.manager.BranchCommits())
}

func (g *RepoManagerTests) SameBranchReturnsHead(t *testgroup.T) {
	g.commit(t, "first", g.addFile(t, "a.txt", "a\n"))
	second := g.commit(t, "second", g.addFile(t, "b.txt", "b\n"))

	commits := g.manager.BranchCommits()

	t.Require.Len(commits, 1)
	t.Equal(second.String(), commits[0].Hash)
	t.Equal("second", commits[0].Subject())
}

func (g *RepoManagerTests) BranchRange(t *testgroup.T) {
	g.commit(t, "base", g.addFile(t, "a.txt", "a\n"))
	g.checkout(t, "feature")
	one := g.commit(t, "one", g.addFile(t, "b.txt", "b\n"))
	two := g.commit(t, "two", g.addFile(t, "c.txt", "c\n"))

	commits := g.manager.BranchCommits()

	t.Require.Len(commits, 2)
	t.Equal(two.String(), commits[0].Hash)
	t.Equal(one.String(), commits[1].Hash)
	t.Equal(one.String(), commits[0].ParentHash)
}

func (g *RepoManagerTests) UnknownBaseReturnsEmpty(t *testgroup.T) {
	g.commit(t, "base", g.addFile(t, "a.txt", "a\n"))

	t.Empty(g.manager.ListCommits("does-not-exist", "master"))
}

func (g *RepoManagerTests) GetCommitByShortHash(t *testgroup.T) {
	hash := g.commit(t, "base", g.addFile(t, "a.txt", "a\n"))

	commit := g.manager.GetCommit(hash.String()[:8])

	t.Require.NotNil(commit)
	t.Equal(hash.String(), commit.Hash)
	t.True(commit.IsRoot())
	t.Nil(g.manager.GetCommit("0000000000000000000000000000000000000001"))
}

func (g *RepoManagerTests) ChangesOfRootCommit(t *testgroup.T) {
	hash := g.commit(t, "base", g.addFile(t, "a.txt", "hello\n"))

	diff := g.manager.GetChanges(context.Background(), g.manager.GetCommit(hash.String()))

	changes := diffs.ExtractChanges(diff)
	t.Equal([]*model.FileChange{{Type: model.FileAdded, Path: "a.txt"}}, changes.List)
	t.Contains(diff, "+hello")
}

func (g *RepoManagerTests) ChangesAgainstParent(t *testgroup.T) {
	g.commit(t, "base", func(wt *git.Worktree) {
		g.addFile(t, "keep.txt", "one\n")(wt)
		g.addFile(t, "gone.txt", "bye\n")(wt)
	})
	hash := g.commit(t, "change", func(wt *git.Worktree) {
		g.addFile(t, "keep.txt", "one\ntwo\n")(wt)
		g.addFile(t, "new.txt", "new\n")(wt)
		_, err := wt.Remove("gone.txt")
		t.Require.NoError(err)
	})

	diff := g.manager.GetChanges(context.Background(), g.manager.GetCommit(hash.String()))
	changes := diffs.Parse(diff)

	t.Equal([]string{"keep.txt", "new.txt"}, changes.Files)
	t.Len(changes.ByType(model.FileAdded), 1)
	t.Len(changes.ByType(model.FileRemoved), 1)
	t.Len(changes.ByType(model.FileUnchanged), 1)
	t.Contains(changes.ByType(model.FileUnchanged)[0].Fragment, "+two")
}

func (g *RepoManagerTests) RawFileContent(t *testgroup.T) {
	first := g.commit(t, "base", g.addFile(t, "a.txt", "v1\n"))
	second := g.commit(t, "update", g.addFile(t, "a.txt", "v2\n"))

	content, ok := g.manager.GetRawFileContent(g.manager.GetCommit(first.String()), "a.txt")
	t.True(ok)
	t.Equal("v1\n", content)

	content, ok = g.manager.GetRawFileContent(g.manager.GetCommit(second.String()), "a.txt")
	t.True(ok)
	t.Equal("v2\n", content)

	_, ok = g.manager.GetRawFileContent(g.manager.GetCommit(second.String()), "missing.txt")
	t.False(ok)
}
