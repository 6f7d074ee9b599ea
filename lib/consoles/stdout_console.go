package consoles

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/abiosoft/lineprefix"
)

type stdoutConsole struct {
	mutex    sync.Mutex
	out      io.Writer
	progress io.Writer
	silent   bool
	now      func() time.Time
	prefixes []string
}

func NewStdOutConsole(silent bool) Console {
	return NewConsole(os.Stdout, os.Stderr, silent)
}

func NewConsole(out, progress io.Writer, silent bool) Console {
	return &stdoutConsole{
		out:      out,
		progress: progress,
		silent:   silent,
		now:      time.Now,
	}
}

func (o *stdoutConsole) Printf(format string, a ...any) {
	if o.silent {
		return
	}

	builder := strings.Builder{}
	builder.WriteString("[")
	builder.WriteString(o.now().Format("15:04:05"))
	builder.WriteString("] ")
	builder.WriteString(o.Prepare(format, a...))

	o.write(builder.String())
}

func (o *stdoutConsole) Print(text string) {
	o.write(text)
}

func (o *stdoutConsole) write(text string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	_, _ = io.WriteString(o.out, text)
}

func (o *stdoutConsole) Prepare(format string, a ...any) string {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	builder := strings.Builder{}
	for _, prefix := range o.prefixes {
		builder.WriteString(prefix)
	}
	builder.WriteString(fmt.Sprintf(format, a...))
	return builder.String()
}

func (o *stdoutConsole) PushPrefix(format string, a ...any) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.prefixes = append(o.prefixes, fmt.Sprintf(format, a...))
}

func (o *stdoutConsole) PopPrefix() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if len(o.prefixes) > 0 {
		o.prefixes = o.prefixes[:len(o.prefixes)-1]
	}
}

func (o *stdoutConsole) Writer() io.Writer {
	prefix := lineprefix.PrefixFunc(func() string {
		return o.Prepare("")
	})

	return lineprefix.New(lineprefix.Writer(o.out), prefix)
}

func (o *stdoutConsole) Progress() io.Writer {
	if o.silent {
		return nil
	}
	return o.progress
}

func (o *stdoutConsole) Silent() bool {
	return o.silent
}
