package splitter

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/pescuma/cheeky/lib/model"
)

const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 100
)

var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts text into overlapping chunks, trying each separator in order so that paragraphs
// stay together before lines, and lines before words.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

func New() *Splitter {
	return &Splitter{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		Separators:   DefaultSeparators,
	}
}

func (s *Splitter) SplitDocuments(docs []*model.Document) []*model.Chunk {
	var result []*model.Chunk
	for _, doc := range docs {
		for _, text := range s.SplitText(doc.Text) {
			result = append(result, model.NewChunk(doc.Source, text))
		}
	}
	return result
}

func (s *Splitter) SplitText(text string) []string {
	return s.split(text, s.Separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	separator := ""
	var next []string
	if len(separators) > 0 {
		separator = separators[len(separators)-1]
	}
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	var result []string
	var good []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if length(piece) < s.ChunkSize {
			good = append(good, piece)
			continue
		}

		if len(good) > 0 {
			result = append(result, s.merge(good)...)
			good = nil
		}

		if len(next) == 0 {
			result = append(result, piece)
		} else {
			result = append(result, s.split(piece, next)...)
		}
	}

	if len(good) > 0 {
		result = append(result, s.merge(good)...)
	}

	return result
}

// merge glues small pieces back into chunks of at most ChunkSize, carrying up to ChunkOverlap
// characters from the end of a chunk to the start of the next one.
func (s *Splitter) merge(pieces []string) []string {
	var result []string
	var current []string
	total := 0

	for _, piece := range pieces {
		l := length(piece)

		if total+l > s.ChunkSize && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
				result = append(result, doc)
			}

			for len(current) > 0 && (total > s.ChunkOverlap || total+l > s.ChunkSize) {
				total -= length(current[0])
				current = current[1:]
			}
		}

		current = append(current, piece)
		total += l
	}

	if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
		result = append(result, doc)
	}

	return result
}

// splitKeepingSeparator splits text on separator, keeping the separator at the start of the
// piece that follows it.
func splitKeepingSeparator(text, separator string) []string {
	if separator == "" {
		return lo.Map([]rune(text), func(r rune, _ int) string { return string(r) })
	}

	parts := strings.Split(text, separator)

	result := make([]string, 0, len(parts))
	for i, part := range parts {
		if i > 0 {
			part = separator + part
		}
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func length(text string) int {
	return utf8.RuneCountInString(text)
}
