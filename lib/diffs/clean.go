package diffs

import (
	"strings"
)

var cleaner = strings.NewReplacer(
	`"""`, `'''`,
	`\\`, `\`,
)

// Clean rewrites sequences that confuse prompt templates: triple double quotes become triple
// single quotes and doubled backslashes become single ones.
func Clean(diff string) string {
	return cleaner.Replace(diff)
}
