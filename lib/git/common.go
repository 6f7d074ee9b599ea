package git

import (
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"

	"github.com/pescuma/cheeky/lib/model"
)

func log(gitRepo *git.Repository, gitRevision plumbing.Hash) (object.CommitIter, error) {
	return gitRepo.Log(&git.LogOptions{
		From:  gitRevision,
		Order: git.LogOrderCommitterTime,
	})
}

// resolveRevision accepts a comma separated list of candidates and returns the first that exists.
func resolveRevision(gitRepo *git.Repository, revision string) (plumbing.Hash, error) {
	if revision == "" || revision == "HEAD" {
		gitHead, err := gitRepo.Head()
		if err != nil {
			return plumbing.ZeroHash, err
		}

		return gitHead.Hash(), nil
	}

	for _, candidate := range strings.Split(revision, ",") {
		hash, err := gitRepo.ResolveRevision(plumbing.Revision(strings.TrimSpace(candidate)))
		if err == nil {
			return *hash, nil
		}
	}

	return plumbing.ZeroHash, errors.Errorf("no revision found with name: %v", revision)
}

func toModel(gitCommit *object.Commit) *model.Commit {
	result := &model.Commit{
		Hash:    gitCommit.Hash.String(),
		Message: gitCommit.Message,
		Author:  gitCommit.Author.Name,
		Date:    gitCommit.Committer.When,
	}

	if len(gitCommit.ParentHashes) > 0 {
		result.ParentHash = gitCommit.ParentHashes[0].String()
	}

	return result
}
