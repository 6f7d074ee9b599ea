package utils

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// NewThinkingBar creates a spinner with no known total.
func NewThinkingBar(out io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
