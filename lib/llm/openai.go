package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// EmbeddingBatchSize is the max number of inputs sent in one embeddings request.
const EmbeddingBatchSize = 256

// Sampling parameters sent with every chat request.
const (
	topP             = 0.2
	frequencyPenalty = 1
	presencePenalty  = 1
)

type OpenAIOptions struct {
	BaseURL string
	APIKey  string
	Model   string

	// EmbeddingModel is used by Embed.
	EmbeddingModel string

	Timeout    time.Duration
	MaxRetries int
	Verbose    bool
	Logger     zerolog.Logger
}

// OpenAIClient talks to any server implementing the OpenAI chat completions and embeddings API.
type OpenAIClient struct {
	baseURL        string
	apiKey         string
	model          string
	embeddingModel string
	maxRetries     int
	retryDelay     time.Duration
	batchSize      int
	verbose        bool
	http           *http.Client
	logger         zerolog.Logger
}

func NewOpenAIClient(opts OpenAIOptions) *OpenAIClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &OpenAIClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         opts.APIKey,
		model:          opts.Model,
		embeddingModel: opts.EmbeddingModel,
		maxRetries:     opts.MaxRetries,
		retryDelay:     time.Second,
		batchSize:      EmbeddingBatchSize,
		verbose:        opts.Verbose,
		http: &http.Client{
			Timeout: opts.Timeout,
		},
		logger: opts.Logger.With().Str("component", "llm").Logger(),
	}
}

type chatRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      float64   `json:"temperature"`
	MaxTokens        int       `json:"max_tokens,omitempty"`
	TopP             float64   `json:"top_p"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	PresencePenalty  float64   `json:"presence_penalty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	req := chatRequest{
		Model:            c.model,
		Messages:         messages,
		Temperature:      opts.Temperature,
		MaxTokens:        opts.MaxTokens,
		TopP:             topP,
		FrequencyPenalty: frequencyPenalty,
		PresencePenalty:  presencePenalty,
	}

	if c.verbose {
		for _, m := range messages {
			c.logger.Debug().Str("role", m.Role).Str("model", c.model).Msg(m.Content)
		}
	}

	var resp chatResponse
	err := c.post(ctx, "/chat/completions", req, &resp)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrNoChoices
	}

	result := strings.TrimSpace(resp.Choices[0].Message.Content)

	if c.verbose {
		c.logger.Debug().Str("role", RoleAssistant).Str("model", c.model).Msg(result)
	}

	return result, nil
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []embeddingData `json:"data"`
}

type embeddingData struct {
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	result := make([][]float32, 0, len(texts))
	for _, batch := range lo.Chunk(texts, c.batchSize) {
		vectors, err := c.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}

		result = append(result, vectors...)
	}
	return result, nil
}

func (c *OpenAIClient) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var resp embeddingResponse
	err := c.post(ctx, "/embeddings", embeddingRequest{Model: c.embeddingModel, Input: texts}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, errors.Errorf("expected %v embeddings, got %v", len(texts), len(resp.Data))
	}

	sort.Slice(resp.Data, func(i, j int) bool { return resp.Data[i].Index < resp.Data[j].Index })

	result := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		result[i] = d.Embedding
	}
	return result, nil
}

func (c *OpenAIClient) post(ctx context.Context, path string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request")
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn().Err(lastErr).Int("attempt", attempt).Str("path", path).Msg("Retrying request")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(1<<(attempt-1))):
			}
		}

		retry, err := c.postOnce(ctx, path, payload, result)
		if err == nil {
			return nil
		}

		lastErr = err
		if !retry {
			break
		}
	}

	return lastErr
}

func (c *OpenAIClient) postOnce(ctx context.Context, path string, payload []byte, result any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return false, errors.Wrap(err, "failed to create HTTP request")
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ctx.Err() == nil, errors.Wrap(err, "API request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		return statusErr.Retryable(), statusErr
	}

	err = json.NewDecoder(resp.Body).Decode(result)
	if err != nil {
		return false, errors.Wrap(err, "failed to decode response")
	}

	return false, nil
}
