package orm

import (
	"strings"

	"github.com/samber/lo"

	"github.com/pescuma/cheeky/lib/model"
)

func encodeFileSummaries(files []*model.FileSummary) (map[string]string, []string) {
	if len(files) == 0 {
		return nil, nil
	}

	m := lo.Associate(files, func(f *model.FileSummary) (string, string) {
		return f.Path, f.Text
	})
	order := lo.Map(files, func(f *model.FileSummary, _ int) string {
		return f.Path
	})
	return m, order
}

func decodeFileSummaries(m map[string]string, order []string) []*model.FileSummary {
	result := make([]*model.FileSummary, 0, len(order))
	for _, path := range order {
		text, ok := m[path]
		if !ok {
			continue
		}

		result = append(result, &model.FileSummary{Path: path, Text: text})
	}
	return result
}

func compositeKey(ids ...string) string {
	return strings.Join(ids, "\n")
}
