package filters

import (
	"os"

	"github.com/pkg/errors"
	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName is looked up in the repository. It holds gitignore style rules of files that
// should not be summarized.
const IgnoreFileName = ".cheekyignore"

// LoadIgnoreFile returns nil when file does not exist.
func LoadIgnoreFile(file string) (FileFilter, error) {
	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	gi, err := ignore.CompileIgnoreFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %v", file)
	}

	return gi.MatchesPath, nil
}

// Combine matches when any of the non nil filters does.
func Combine(fs ...FileFilter) FileFilter {
	var result []FileFilter
	for _, f := range fs {
		if f != nil {
			result = append(result, f)
		}
	}
	return Any(result)
}
