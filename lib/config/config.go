package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/pescuma/cheeky/lib/embeddings"
	"github.com/pescuma/cheeky/lib/filters"
)

const (
	DefaultModel          = "gpt-3.5-turbo"
	DefaultEmbeddingModel = "text-embedding-3-small"
)

// Config holds every tunable of a run. It is embedded in the command line, so each field can
// come from a flag, from the environment or from a .env file.
type Config struct {
	URI    string `help:"Base URL of an OpenAI compatible API. Empty means OpenAI." env:"URI"`
	Model  string `help:"Chat model used to summarize and compare." env:"MODEL" default:"gpt-3.5-turbo"`
	APIKey string `name:"api-key" help:"API key sent as a bearer token." env:"OPENAI_API_KEY"`

	Confidence int    `help:"Minimum confidence (0-100) for the comparison to pass." env:"CONFIDENCE" default:"60"`
	MainBranch string `help:"Base branch. Commits in the current branch and not in it are processed." env:"MAINBRANCH" default:"main"`
	DevPath    string `help:"Path of the repository to inspect." env:"DEVPATH" default:"." type:"path"`

	LogLevel string `help:"Log level (debug, info, warn, error)." env:"LOG_LEVEL" default:"info"`
	Verbose  bool   `help:"Log every prompt and reply." env:"VERBOSE"`

	MaxRetries int           `help:"Retries for failed LLM requests." env:"MAX_RETRIES" default:"0"`
	Timeout    time.Duration `help:"Timeout of each LLM request." env:"TIMEOUT" default:"2m"`

	EmbeddingModel string `help:"Embedding model. Use 'hash' to embed offline. Default is text-embedding-3-small on OpenAI and 'hash' elsewhere." env:"EMBEDDING_MODEL"`
	EmbeddingURI   string `help:"Base URL of the embeddings API. Defaults to --uri." env:"EMBEDDING_URI"`

	Workspace string   `short:"w" help:"SQLite file used to cache chunks and summaries. Default is in memory." env:"WORKSPACE" default:":memory:"`
	Jobs      int      `short:"j" help:"Files summarized in parallel." env:"JOBS" default:"4"`
	Ignore    []string `help:"Glob patterns of files that should not be summarized." env:"IGNORE"`
	NoCache   bool     `help:"Do not reuse summaries stored in the workspace."`
}

// LoadDotEnv loads a .env file from the working directory, if there is one. Variables already
// in the environment win.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}

	return errors.Wrap(godotenv.Load(".env"), "error loading .env")
}

func (c *Config) Validate() error {
	if c.Confidence < 0 || c.Confidence > 100 {
		return errors.Errorf("confidence must be between 0 and 100, got %v", c.Confidence)
	}
	if c.Jobs < 1 {
		return errors.Errorf("jobs must be at least 1, got %v", c.Jobs)
	}
	if c.MaxRetries < 0 {
		return errors.Errorf("max retries can't be negative, got %v", c.MaxRetries)
	}
	if c.Timeout < 0 {
		return errors.Errorf("timeout can't be negative, got %v", c.Timeout)
	}
	if c.Model == "" {
		return errors.New("model can't be empty")
	}
	if _, err := filters.ParseIgnoreRules(c.Ignore); err != nil {
		return errors.Wrap(err, "invalid ignore rule")
	}
	return nil
}

func (c *Config) EmbeddingEndpoint() string {
	if c.EmbeddingURI != "" {
		return c.EmbeddingURI
	}
	return c.URI
}

// EmbeddingModelName returns the embedding model to use. Without an explicit one, OpenAI gets
// DefaultEmbeddingModel and any other server the offline hash embedder, since a chat server
// may not serve embeddings.
func (c *Config) EmbeddingModelName() string {
	switch {
	case c.EmbeddingModel != "":
		return c.EmbeddingModel
	case c.EmbeddingEndpoint() == "":
		return DefaultEmbeddingModel
	default:
		return embeddings.HashModel
	}
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Model:          DefaultModel,
		Confidence:     60,
		MainBranch:     "main",
		DevPath:        ".",
		LogLevel:       "info",
		Timeout:        2 * time.Minute,
		Workspace:      ":memory:",
		Jobs:           4,
	}
}
