package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aquilax/truncate"
	"github.com/dustin/go-humanize"
	"github.com/gertd/go-pluralize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pescuma/cheeky/lib/compare"
	"github.com/pescuma/cheeky/lib/config"
	"github.com/pescuma/cheeky/lib/consoles"
	"github.com/pescuma/cheeky/lib/diffs"
	"github.com/pescuma/cheeky/lib/embeddings"
	"github.com/pescuma/cheeky/lib/filters"
	"github.com/pescuma/cheeky/lib/git"
	"github.com/pescuma/cheeky/lib/llm"
	"github.com/pescuma/cheeky/lib/model"
	"github.com/pescuma/cheeky/lib/render"
	"github.com/pescuma/cheeky/lib/storages"
	"github.com/pescuma/cheeky/lib/storages/orm"
	"github.com/pescuma/cheeky/lib/summarize"
	"github.com/pescuma/cheeky/lib/utils"
)

// ErrCheckFailed is returned when a generated message did not match the original closely enough.
var ErrCheckFailed = errors.New("commit message check failed")

type Options struct {
	// Compare checks the original messages against the generated ones.
	Compare bool
	// Silent prints only the generated messages.
	Silent bool
	// Commit selects a single commit instead of the commits of the current branch.
	Commit string
	// NoBreak keeps a failed comparison from failing the run.
	NoBreak bool
	// ShowDiff prints the cleaned diffs without calling the model.
	ShowDiff bool
	// Simulate replaces the model with a local simulator.
	Simulate bool
}

type Workspace struct {
	cfg     *config.Config
	console consoles.Console
	logger  zerolog.Logger
	plural  *pluralize.Client

	storage    storages.Storage
	repo       *git.RepoManager
	summarizer *summarize.Summarizer
	comparator *compare.Comparator
}

func NewWorkspace(cfg *config.Config, console consoles.Console, logger zerolog.Logger, simulate bool) (*Workspace, error) {
	storage, err := openStorage(cfg.Workspace, console, logger)
	if err != nil {
		return nil, err
	}

	repo, err := git.OpenRepoManager(cfg.DevPath, cfg.MainBranch, logger)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	client, embedder := createClients(cfg, logger, simulate)
	modelName := utils.IIf(simulate, "simulator", cfg.Model)

	ws, err := newWorkspace(cfg, console, logger, storage, repo, client, embedder, modelName)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	return ws, nil
}

func newWorkspace(cfg *config.Config, console consoles.Console, logger zerolog.Logger,
	storage storages.Storage, repo *git.RepoManager, client llm.Client, embedder llm.Embedder, modelName string,
) (*Workspace, error) {
	rules, err := filters.ParseIgnoreRules(cfg.Ignore)
	if err != nil {
		return nil, err
	}

	ignoreFile, err := filters.LoadIgnoreFile(filepath.Join(cfg.DevPath, filters.IgnoreFileName))
	if err != nil {
		return nil, err
	}

	summarizer := summarize.New(repo, client, embedder, storage, summarize.Options{
		DevPath: cfg.DevPath,
		Model:   modelName,
		Ignore:  filters.Combine(rules, ignoreFile),
		Jobs:    cfg.Jobs,
		NoCache: cfg.NoCache,
	}, logger)

	return &Workspace{
		cfg:        cfg,
		console:    console,
		logger:     logger,
		plural:     pluralize.NewClient(),
		storage:    storage,
		repo:       repo,
		summarizer: summarizer,
		comparator: compare.New(client, logger),
	}, nil
}

func createClients(cfg *config.Config, logger zerolog.Logger, simulate bool) (llm.Client, llm.Embedder) {
	if simulate {
		return llm.NewSimulator(), embeddings.New(embeddings.HashModel, nil)
	}

	chat := llm.NewOpenAIClient(llm.OpenAIOptions{
		BaseURL:    cfg.URI,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		Verbose:    cfg.Verbose,
		Logger:     logger,
	})

	embeddingModel := cfg.EmbeddingModelName()
	if cfg.EmbeddingModel == "" && embeddingModel == embeddings.HashModel {
		logger.Info().Str("uri", cfg.EmbeddingEndpoint()).Msg("No embedding model set for a custom URI, embedding offline")
	}

	embed := llm.NewOpenAIClient(llm.OpenAIOptions{
		BaseURL:        cfg.EmbeddingEndpoint(),
		APIKey:         cfg.APIKey,
		EmbeddingModel: embeddingModel,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		Logger:         logger,
	})

	return chat, embeddings.New(embeddingModel, embed)
}

func openStorage(file string, console consoles.Console, logger zerolog.Logger) (storages.Storage, error) {
	if file == "" || file == orm.InMemory {
		return orm.NewSqliteStorage(orm.InMemory, logger)
	}

	file, err := utils.PathAbs(file)
	if err != nil {
		return nil, err
	}

	err = createWorkspaceDir(file, console)
	if err != nil {
		return nil, err
	}

	return orm.NewSqliteStorage(file, logger)
}

func createWorkspaceDir(file string, console consoles.Console) error {
	path := filepath.Dir(file)

	if _, err := os.Stat(path); err != nil {
		console.Printf("Creating workspace at %v\n", path)

		err = os.MkdirAll(path, 0o700)
		if err != nil {
			return errors.Wrapf(err, "error creating workspace at %v", path)
		}
	}

	return nil
}

func (w *Workspace) Close() error {
	return w.storage.Close()
}

func (w *Workspace) Console() consoles.Console {
	return w.console
}

// Run processes the selected commits. It returns ErrCheckFailed when a comparison failed and
// NoBreak is not set.
func (w *Workspace) Run(ctx context.Context, opts Options) error {
	if !opts.Silent {
		w.console.Print(render.Banner(w.cfg.URI, w.cfg.Model))
	}

	commits, err := w.selectCommits(opts)
	if err != nil {
		return err
	}

	if len(commits) == 0 {
		w.logger.Warn().Msg("No commits to process")
		return nil
	}

	w.console.Printf("Processing %v\n", w.plural.Pluralize("commit", len(commits), true))

	failed := 0
	for _, commit := range commits {
		passed, err := w.ProcessCommit(ctx, commit, opts)
		if err != nil {
			return err
		}

		if !passed {
			failed++
		}
	}

	if failed > 0 {
		w.logger.Warn().Msgf("%v failed the check", w.plural.Pluralize("commit", failed, true))

		if !opts.NoBreak {
			return ErrCheckFailed
		}
	}

	return nil
}

func (w *Workspace) selectCommits(opts Options) ([]*model.Commit, error) {
	if opts.Commit != "" {
		commit := w.repo.GetCommit(opts.Commit)
		if commit == nil {
			return nil, errors.Errorf("commit %v not found", opts.Commit)
		}

		return []*model.Commit{commit}, nil
	}

	return w.repo.BranchCommits(), nil
}

// ProcessCommit suggests a message for commit and, when comparing, reports whether the
// original message matches it.
func (w *Workspace) ProcessCommit(ctx context.Context, commit *model.Commit, opts Options) (bool, error) {
	if !opts.Silent {
		w.console.Print(render.CurrentCommit(commit.Hash))
	}

	w.console.PushPrefix("%v: ", commit.ShortHash())
	defer w.console.PopPrefix()

	w.console.Printf("%v (%v)\n",
		truncate.Truncate(commit.Subject(), 50, "...", truncate.PositionEnd),
		humanize.Time(commit.Date))

	diff := diffs.Clean(w.repo.GetChanges(ctx, commit))

	if opts.ShowDiff {
		_, _ = fmt.Fprint(w.console.Writer(), diff)
		return true, nil
	}

	w.console.Printf("Diff has %v\n", humanize.Bytes(uint64(len(diff))))

	summary, err := utils.Think(w.console, "Generating summary...", func() (*model.Summary, error) {
		return w.summarizer.Summarize(ctx, commit, diff)
	})
	if err != nil {
		return false, err
	}

	if !opts.Compare {
		w.console.Print(render.Panel(summary.Message, opts.Silent))
		return true, nil
	}

	confidence, err := utils.Think(w.console, "Comparing commit messages...", func() (int, error) {
		return w.comparator.Compare(ctx, commit.Message, summary.Message)
	})
	if err != nil {
		return false, err
	}

	w.console.Print(render.Confidence(confidence))

	if confidence >= w.cfg.Confidence {
		w.console.Print(render.Passed())
		return true, nil
	}

	w.console.Print(render.Failed())
	w.console.Print(render.Comparison(commit.Message, summary.Message))
	w.console.Print(render.Tip())
	return false, nil
}
