package summarize

import (
	"context"
	"strings"
	"time"

	"github.com/gertd/go-pluralize"
	"github.com/go-enry/go-enry/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/pescuma/cheeky/lib/diffs"
	"github.com/pescuma/cheeky/lib/filters"
	"github.com/pescuma/cheeky/lib/llm"
	"github.com/pescuma/cheeky/lib/model"
	"github.com/pescuma/cheeky/lib/prompts"
	"github.com/pescuma/cheeky/lib/splitter"
	"github.com/pescuma/cheeky/lib/storages"
	"github.com/pescuma/cheeky/lib/utils"
	"github.com/pescuma/cheeky/lib/vectorstore"
)

const (
	// ErrorText replaces the summary of a file that could not be summarized.
	ErrorText = "Error in processing file."

	TopK        = 10
	Temperature = 0.1
	MaxTokens   = 512
)

var ErrEmptyMessage = errors.New("the generated commit message is empty")

// Repository gives access to the content of files at a commit.
type Repository interface {
	GetRawFileContent(commit *model.Commit, path string) (string, bool)
}

type Options struct {
	// DevPath prefixes the source of every document.
	DevPath string
	// Model names the chat model, used as part of the cache key.
	Model string
	// Ignore matches the files that are not summarized. They are still listed as changes.
	Ignore filters.FileFilter
	Jobs   int
	// NoCache forces a new summary even when one is stored.
	NoCache bool
}

type Summarizer struct {
	repo     Repository
	client   llm.Client
	embedder llm.Embedder
	storage  storages.Storage
	splitter *splitter.Splitter
	opts     Options
	logger   zerolog.Logger
	plural   *pluralize.Client
}

func New(repo Repository, client llm.Client, embedder llm.Embedder, storage storages.Storage, opts Options, logger zerolog.Logger) *Summarizer {
	if opts.DevPath == "" {
		opts.DevPath = "."
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}

	return &Summarizer{
		repo:     repo,
		client:   client,
		embedder: embedder,
		storage:  storage,
		splitter: splitter.New(),
		opts:     opts,
		logger:   logger.With().Str("component", "summarize").Logger(),
		plural:   pluralize.NewClient(),
	}
}

// Summarize suggests a commit message for the cleaned diff of commit.
func (s *Summarizer) Summarize(ctx context.Context, commit *model.Commit, diff string) (*model.Summary, error) {
	changes := diffs.Parse(diff)
	fragments := lo.Associate(changes.List, func(c *model.FileChange) (string, string) {
		return c.Path, c.Fragment
	})

	files := s.filterIgnored(changes.Files)

	if !s.opts.NoCache {
		cached, err := s.loadStored(commit, files)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return cached, nil
		}
	}

	store := vectorstore.New(s.storage, s.embedder, commit.Hash)

	err := store.Clear()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := store.Clear(); err != nil {
			s.logger.Warn().Err(err).Msg("Error clearing indexed chunks")
		}
	}()

	docs := s.loadDocuments(commit, files, fragments)

	err = store.AddChunks(ctx, s.splitter.SplitDocuments(docs))
	if err != nil {
		return nil, err
	}

	texts, err := utils.ParallelMap(files, func(file string) (string, error) {
		return s.summarizeFile(ctx, store, file)
	}, utils.ParallelOptions{Routines: s.opts.Jobs})
	if err != nil {
		return nil, err
	}

	result := model.NewSummary(commit.Hash, s.opts.Model)
	result.Date = time.Now()
	for i, file := range files {
		result.Files = append(result.Files, &model.FileSummary{Path: file, Text: texts[i]})
	}

	result.Message, err = s.client.Chat(ctx, prompts.Overall(Format(result.Files, changes)), llm.Options{
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error generating commit message")
	}

	result.Message = strings.TrimSpace(result.Message)
	if result.Message == "" {
		return nil, ErrEmptyMessage
	}

	err = s.storage.WriteSummary(result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// loadStored returns the stored summary of commit, if it was made from the same set of files.
// A summary made with other ignore rules is not reused.
func (s *Summarizer) loadStored(commit *model.Commit, files []string) (*model.Summary, error) {
	cached, err := s.storage.LoadSummary(commit.Hash, s.opts.Model)
	if err != nil {
		return nil, err
	}

	if cached == nil || cached.Message == "" {
		return nil, nil
	}

	summarized := lo.Map(cached.Files, func(f *model.FileSummary, _ int) string { return f.Path })
	if !slices.Equal(summarized, files) {
		s.logger.Debug().Str("commit", commit.ShortHash()).Msg("Stored summary used other files, summarizing again")
		return nil, nil
	}

	s.logger.Debug().Str("commit", commit.ShortHash()).Msg("Using stored summary")
	return cached, nil
}

func (s *Summarizer) filterIgnored(files []string) []string {
	if s.opts.Ignore == nil {
		return files
	}

	result := lo.Filter(files, func(file string, _ int) bool {
		return !s.opts.Ignore(file)
	})

	if ignored := len(files) - len(result); ignored > 0 {
		s.logger.Info().Msgf("Ignoring %v", s.plural.Pluralize("file", ignored, true))
	}

	return result
}

func (s *Summarizer) source(file string) string {
	return s.opts.DevPath + "/" + file
}

func (s *Summarizer) loadDocuments(commit *model.Commit, files []string, fragments map[string]string) []*model.Document {
	var result []*model.Document

	for _, file := range files {
		source := s.source(file)

		raw, ok := s.repo.GetRawFileContent(commit, file)
		if ok && s.shouldIndexContent(file, raw) {
			result = append(result, model.NewDocument(source, raw))
		}

		result = append(result, model.NewDocument(source, fragments[file]))
	}

	return result
}

func (s *Summarizer) shouldIndexContent(file, content string) bool {
	data := []byte(content)

	switch {
	case enry.IsBinary(data):
		s.logger.Debug().Str("file", file).Msg("Skipping binary content")
		return false
	case enry.IsVendor(file):
		s.logger.Debug().Str("file", file).Msg("Skipping vendored content")
		return false
	case enry.IsGenerated(file, data):
		s.logger.Debug().Str("file", file).Msg("Skipping generated content")
		return false
	}

	return true
}

func (s *Summarizer) summarizeFile(ctx context.Context, store *vectorstore.Store, file string) (string, error) {
	source := s.source(file)

	s.logger.Info().Str("language", enry.GetLanguage(file, nil)).Msgf("Processing %v", source)

	result, err := s.askReviewer(ctx, store, source)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		s.logger.Error().Err(err).Str("file", file).Msg("Error processing file")
		return ErrorText, nil
	}

	return result, nil
}

func (s *Summarizer) askReviewer(ctx context.Context, store *vectorstore.Store, source string) (string, error) {
	chunks, err := store.Search(ctx, prompts.Question, TopK, source)
	if err != nil {
		return "", err
	}

	codeDiff := strings.Join(lo.Map(chunks, func(c *model.Chunk, _ int) string { return c.Text }), "\n\n")

	return s.client.Chat(ctx, prompts.Reviewer(codeDiff), llm.Options{
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
}
