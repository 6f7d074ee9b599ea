package llm

import (
	"context"
	"strings"
)

const simulatedSummary = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor " +
	"incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud " +
	"exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat."

// Simulator is an offline Client for trying the tool without a model. Summaries are filler
// text and confidence requests are answered with -1, so comparisons always fail.
type Simulator struct {
	Summary string
}

func NewSimulator() *Simulator {
	return &Simulator{
		Summary: simulatedSummary,
	}
}

func (s *Simulator) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if isComparison(messages) {
		return "Confidence: -1", nil
	}

	return s.Summary, nil
}

// isComparison recognizes the comparison conversation: a single system message with both
// commit message headers.
func isComparison(messages []Message) bool {
	if len(messages) != 1 || messages[0].Role != RoleSystem {
		return false
	}

	content := messages[0].Content
	return strings.Contains(content, "ORIGINAL COMMIT MESSAGE:") &&
		strings.Contains(content, "GENERATED COMMIT MESSAGE:")
}
