package summarize

import (
	"strings"

	"github.com/pescuma/cheeky/lib/model"
)

// Format merges the per file summaries and the list of added, renamed and removed files into
// the text given to the model when writing the commit message.
func Format(files []*model.FileSummary, changes *model.Changes) string {
	var sb strings.Builder

	for _, f := range files {
		sb.WriteString(f.Path)
		sb.WriteString(":\n")
		sb.WriteString(f.Text)
		sb.WriteString("\n\n")
	}

	if changes != nil {
		for _, c := range changes.Notable() {
			sb.WriteString(c.String())
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
