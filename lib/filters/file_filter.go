package filters

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// FileFilter decides if a path, relative to the repository root, matches.
type FileFilter func(path string) bool

// ParseFileFilter parses a doublestar glob. Globs can be combined with | (any), & (all) and
// negated with a leading !.
func ParseFileFilter(rule string) (FileFilter, error) {
	rule = strings.TrimSpace(rule)

	switch {
	case rule == "":
		return func(path string) bool {
			return true
		}, nil

	case strings.Contains(rule, "|"):
		clauses, err := ParseFileFilterList(strings.Split(rule, "|"))
		if err != nil {
			return nil, err
		}

		return Any(clauses), nil

	case strings.Contains(rule, "&"):
		clauses, err := ParseFileFilterList(strings.Split(rule, "&"))
		if err != nil {
			return nil, err
		}

		return func(path string) bool {
			for _, f := range clauses {
				if !f(path) {
					return false
				}
			}
			return true
		}, nil

	case strings.HasPrefix(rule, "!"):
		f, err := ParseFileFilter(rule[1:])
		if err != nil {
			return nil, err
		}

		return func(path string) bool {
			return !f(path)
		}, nil

	default:
		if !doublestar.ValidatePattern(rule) {
			return nil, errors.Errorf("invalid file glob: %v", rule)
		}

		return func(path string) bool {
			m, err := doublestar.Match(rule, path)
			return err == nil && m
		}, nil
	}
}

func ParseFileFilterList(rules []string) ([]FileFilter, error) {
	result := make([]FileFilter, 0, len(rules))

	for _, rule := range rules {
		f, err := ParseFileFilter(rule)
		if err != nil {
			return nil, err
		}

		result = append(result, f)
	}

	return result, nil
}

// Any matches when at least one of filters does. No filters match nothing.
func Any(filters []FileFilter) FileFilter {
	return func(path string) bool {
		for _, f := range filters {
			if f(path) {
				return true
			}
		}
		return false
	}
}

// ParseIgnoreRules builds the filter of files to leave out. No rules ignore nothing.
func ParseIgnoreRules(rules []string) (FileFilter, error) {
	rules = lo.Filter(rules, func(rule string, _ int) bool {
		return strings.TrimSpace(rule) != ""
	})

	clauses, err := ParseFileFilterList(rules)
	if err != nil {
		return nil, err
	}

	return Any(clauses), nil
}
