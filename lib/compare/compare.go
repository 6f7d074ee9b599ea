package compare

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pescuma/cheeky/lib/llm"
	"github.com/pescuma/cheeky/lib/prompts"
)

const Temperature = 0.1

var (
	ErrConfidence = errors.New("Error getting confidence.")
	ErrGenerating = errors.New("Error generating answer.")
)

type Comparator struct {
	client llm.Client
	logger zerolog.Logger
}

func New(client llm.Client, logger zerolog.Logger) *Comparator {
	return &Comparator{
		client: client,
		logger: logger.With().Str("component", "compare").Logger(),
	}
}

// Compare asks the model how well the generated message matches the original one, as a percentage.
func (c *Comparator) Compare(ctx context.Context, original, generated string) (int, error) {
	reply, err := c.client.Chat(ctx, prompts.Comparison(original, generated), llm.Options{
		Temperature: Temperature,
	})
	if err == nil {
		var confidence int
		confidence, err = ParseConfidence(reply)
		if err == nil {
			return confidence, nil
		}
	}

	c.logger.Error().Err(err).Msg("Error generating answer")
	return 0, &generatingError{cause: err}
}

// ParseConfidence reads the number after the first colon of a reply like "Confidence: 85%".
func ParseConfidence(reply string) (int, error) {
	parts := strings.Split(reply, ":")
	if len(parts) < 2 {
		return 0, errors.Wrap(ErrConfidence, "could not parse confidence")
	}

	number := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(parts[1]), "%"))

	result, err := strconv.Atoi(number)
	if err != nil {
		return 0, errors.Wrapf(ErrConfidence, "invalid confidence %q", number)
	}

	return result, nil
}

type generatingError struct {
	cause error
}

func (e *generatingError) Error() string {
	return ErrGenerating.Error() + " " + e.cause.Error()
}

func (e *generatingError) Is(target error) bool {
	return target == ErrGenerating
}

func (e *generatingError) Unwrap() error {
	return e.cause
}
