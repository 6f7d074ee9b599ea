package consoles

import (
	"io"
)

type Console interface {
	// Printf writes a timestamped status line. Silent consoles drop it.
	Printf(format string, a ...any)
	// Print writes text as is, even on silent consoles.
	Print(text string)

	PushPrefix(format string, a ...any)
	PopPrefix()
	Prepare(format string, a ...any) string

	// Writer prefixes every line written to it with the current prefixes.
	Writer() io.Writer
	// Progress is where animations go. Nil on silent consoles.
	Progress() io.Writer

	Silent() bool
}
