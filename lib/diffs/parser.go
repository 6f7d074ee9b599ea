package diffs

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/go-set/v2"
	"github.com/samber/lo"

	"github.com/pescuma/cheeky/lib/model"
)

var fileHeaderRE = regexp.MustCompile(`^diff --git a/(.*) b/(.*)`)

const devNull = "/dev/null"

// ParseFileDiffs splits a unified diff into the fragment of each file, keyed by the new path.
// Lines before the first file header are dropped.
func ParseFileDiffs(diff string) map[string]string {
	result := map[string]*strings.Builder{}

	var current *strings.Builder
	for _, line := range splitLines(diff) {
		if m := fileHeaderRE.FindStringSubmatch(line); m != nil {
			current = &strings.Builder{}
			result[m[2]] = current
		}

		if current != nil {
			current.WriteString(line)
			current.WriteString("\n")
		}
	}

	return lo.MapValues(result, func(sb *strings.Builder, _ string) string {
		return sb.String()
	})
}

type rename struct {
	oldPath string
	newPath string
}

// ExtractChanges classifies the paths of a unified diff using only its ---/+++ headers.
func ExtractChanges(diff string) *model.Changes {
	added := set.New[string](10)
	unchanged := set.New[string](10)
	renamed := set.New[rename](10)
	removed := set.New[string](10)

	oldFile := ""
	for _, line := range splitLines(diff) {
		switch {
		case strings.HasPrefix(line, "--- a/"):
			oldFile = strings.TrimSpace(line[len("--- a/"):])

		case strings.HasPrefix(line, "--- "+devNull):
			oldFile = ""

		case strings.HasPrefix(line, "+++ b/"):
			currentFile := strings.TrimSpace(line[len("+++ b/"):])

			switch oldFile {
			case "":
				added.Insert(currentFile)
			case currentFile:
				unchanged.Insert(currentFile)
			default:
				renamed.Insert(rename{oldPath: oldFile, newPath: currentFile})
			}

		case strings.HasPrefix(line, "+++ "+devNull):
			removed.Insert(oldFile)
		}
	}

	result := model.NewChanges()

	renames := renamed.Slice()
	sort.Slice(renames, func(i, j int) bool {
		if renames[i].newPath != renames[j].newPath {
			return renames[i].newPath < renames[j].newPath
		}
		return renames[i].oldPath < renames[j].oldPath
	})

	for _, p := range sorted(added) {
		result.List = append(result.List, &model.FileChange{Type: model.FileAdded, Path: p})
	}
	for _, r := range renames {
		result.List = append(result.List, &model.FileChange{Type: model.FileRenamed, Path: r.newPath, OldPath: r.oldPath})
	}
	for _, p := range sorted(removed) {
		result.List = append(result.List, &model.FileChange{Type: model.FileRemoved, Path: p})
	}
	for _, p := range sorted(unchanged) {
		result.List = append(result.List, &model.FileChange{Type: model.FileUnchanged, Path: p})
	}

	files := set.New[string](added.Size() + unchanged.Size() + renamed.Size())
	files.InsertSlice(added.Slice())
	files.InsertSlice(unchanged.Slice())
	for _, r := range renames {
		files.Insert(r.newPath)
	}
	result.Files = sorted(files)

	return result
}

// Parse classifies the diff and attaches to each change the fragment of its path.
func Parse(diff string) *model.Changes {
	result := ExtractChanges(diff)
	fragments := ParseFileDiffs(diff)

	for _, fc := range result.List {
		fc.Fragment = fragments[fc.Path]
	}

	return result
}

func sorted(s *set.Set[string]) []string {
	result := s.Slice()
	sort.Strings(result)
	return result
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
