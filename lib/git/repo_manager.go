package git

import (
	"context"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pescuma/cheeky/lib/model"
)

// RepoManager gives read access to commits, diffs and blobs of a repository. Apart from
// opening the repository, failures are logged and turned into empty results.
type RepoManager struct {
	gitRepo    *git.Repository
	mainBranch string
	logger     zerolog.Logger
}

func OpenRepoManager(path string, mainBranch string, logger zerolog.Logger) (*RepoManager, error) {
	gitRepo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to initialize repository at '%v'", path)
	}

	return NewRepoManager(gitRepo, mainBranch, logger), nil
}

func NewRepoManager(gitRepo *git.Repository, mainBranch string, logger zerolog.Logger) *RepoManager {
	return &RepoManager{
		gitRepo:    gitRepo,
		mainBranch: mainBranch,
		logger:     logger.With().Str("component", "git").Logger(),
	}
}

// CurrentBranch returns the short name of the checked out branch, or "" on a detached HEAD.
func (m *RepoManager) CurrentBranch() string {
	head, err := m.gitRepo.Head()
	if err != nil {
		m.logger.Error().Err(err).Msg("Error getting current branch")
		return ""
	}

	if !head.Name().IsBranch() {
		m.logger.Warn().Str("head", head.Hash().String()).Msg("HEAD is detached")
		return ""
	}

	return head.Name().Short()
}

// BranchCommits lists the commits of the current branch that are not in the main branch.
// A detached HEAD only yields the HEAD commit.
func (m *RepoManager) BranchCommits() []*model.Commit {
	current := m.CurrentBranch()
	if current == "" {
		return m.ListCommits("HEAD", "HEAD")
	}

	return m.ListCommits(m.mainBranch, current)
}

// ListCommits returns base..source, newest first. When both are the same only HEAD is returned.
func (m *RepoManager) ListCommits(base, source string) []*model.Commit {
	if base == source {
		commit := m.GetCommit("HEAD")
		if commit == nil {
			return nil
		}
		return []*model.Commit{commit}
	}

	result, err := m.listCommits(base, source)
	if err != nil {
		m.logger.Error().Err(err).Str("range", base+".."+source).Msg("Error getting commit list")
		return nil
	}

	return result
}

func (m *RepoManager) listCommits(base, source string) ([]*model.Commit, error) {
	baseHash, err := resolveRevision(m.gitRepo, base)
	if err != nil {
		return nil, err
	}

	sourceHash, err := resolveRevision(m.gitRepo, source)
	if err != nil {
		return nil, err
	}

	reachable := set.New[plumbing.Hash](1000)

	baseIter, err := log(m.gitRepo, baseHash)
	if err != nil {
		return nil, err
	}

	err = baseIter.ForEach(func(gitCommit *object.Commit) error {
		reachable.Insert(gitCommit.Hash)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sourceIter, err := log(m.gitRepo, sourceHash)
	if err != nil {
		return nil, err
	}

	var result []*model.Commit
	err = sourceIter.ForEach(func(gitCommit *object.Commit) error {
		if reachable.Contains(gitCommit.Hash) {
			return nil
		}

		result = append(result, toModel(gitCommit))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetCommit resolves any revision (full or short hash, branch, tag, HEAD~1...).
func (m *RepoManager) GetCommit(revision string) *model.Commit {
	gitCommit, err := m.commitObject(revision)
	if err != nil {
		m.logger.Error().Err(err).Str("revision", revision).Msg("Error getting commit")
		return nil
	}

	return toModel(gitCommit)
}

func (m *RepoManager) commitObject(revision string) (*object.Commit, error) {
	hash, err := resolveRevision(m.gitRepo, revision)
	if err != nil {
		return nil, err
	}

	return m.gitRepo.CommitObject(hash)
}

// GetChanges returns the unified diff between the commit and its first parent. Root commits are
// compared with an empty tree.
func (m *RepoManager) GetChanges(ctx context.Context, commit *model.Commit) string {
	result, err := m.getChanges(ctx, commit)
	if err != nil {
		m.logger.Error().Err(err).Str("commit", commit.Hash).Msg("Error getting changes")
		return ""
	}

	return result
}

func (m *RepoManager) getChanges(ctx context.Context, commit *model.Commit) (string, error) {
	gitCommit, err := m.commitObject(commit.Hash)
	if err != nil {
		return "", err
	}

	tree, err := gitCommit.Tree()
	if err != nil {
		return "", err
	}

	parentTree := &object.Tree{}
	if gitCommit.NumParents() > 0 {
		parent, err := gitCommit.Parent(0)
		if err != nil {
			return "", err
		}

		m.logger.Debug().
			Str("parent", parent.Hash.String()).
			Str("message", parent.Message).
			Msg("Previous commit")

		parentTree, err = parent.Tree()
		if err != nil {
			return "", err
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return "", err
	}

	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return "", err
	}

	return patch.String(), nil
}

// GetRawFileContent returns the content of a file as of the commit. Files removed by the commit
// can't be read.
func (m *RepoManager) GetRawFileContent(commit *model.Commit, path string) (string, bool) {
	gitCommit, err := m.commitObject(commit.Hash)
	if err != nil {
		m.logger.Error().Err(err).Str("commit", commit.Hash).Msg("Git error occurred")
		return "", false
	}

	file, err := gitCommit.File(path)
	if err != nil {
		m.logger.Error().Err(err).Str("commit", commit.Hash).Str("file", path).Msg("Git error occurred")
		return "", false
	}

	contents, err := file.Contents()
	if err != nil {
		m.logger.Error().Err(err).Str("commit", commit.Hash).Str("file", path).Msg("Git error occurred")
		return "", false
	}

	return contents, true
}
