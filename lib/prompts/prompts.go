package prompts

import (
	"regexp"
	"strings"
	"text/template"

	"github.com/pescuma/cheeky/lib/llm"
)

// Question asked about every file when summarizing it.
const Question = "List the main changes made in the code, following the above guidelines."

var whitespaceRE = regexp.MustCompile(`\s+`)

var (
	reviewerSystemTmpl = mustParse("reviewer-system", Collapse(reviewerSystem))
	reviewerUserTmpl   = mustParse("reviewer-user", Collapse(reviewerUser))
	overallSystemTmpl  = mustParse("overall-system", overallSystem)
	overallUserTmpl    = mustParse("overall-user", overallUser)
	comparisonTmpl     = mustParse("comparison", comparison)
)

// Collapse expands tabs and replaces every run of whitespace, newlines included, with a single space.
func Collapse(text string) string {
	text = strings.ReplaceAll(text, "\t", "        ")
	return whitespaceRE.ReplaceAllString(text, " ")
}

// Reviewer builds the conversation asking for the changes of a single file, given the
// retrieved fragments of its diff and content.
func Reviewer(codeDiff string) []llm.Message {
	return []llm.Message{
		llm.System(execute(reviewerSystemTmpl, nil)),
		llm.User(execute(reviewerUserTmpl, map[string]string{
			"CodeDiff": codeDiff,
			"Question": Question,
		})),
	}
}

// Overall builds the conversation merging the per file summaries into a commit message.
func Overall(resultText string) []llm.Message {
	return []llm.Message{
		llm.System(execute(overallSystemTmpl, nil)),
		llm.User(execute(overallUserTmpl, map[string]string{
			"Input":      overallInput,
			"ResultText": resultText,
		})),
	}
}

// Comparison builds the conversation asking how well two commit messages agree.
func Comparison(original, generated string) []llm.Message {
	return []llm.Message{
		llm.System(execute(comparisonTmpl, map[string]string{
			"Original":  original,
			"Generated": generated,
		})),
	}
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").Parse(text))
}

func execute(tmpl *template.Template, data any) string {
	var sb strings.Builder

	err := tmpl.Execute(&sb, data)
	if err != nil {
		panic(err)
	}

	return sb.String()
}
