package utils

import (
	"time"

	"github.com/pescuma/cheeky/lib/consoles"
)

const thinkingTick = 500 * time.Millisecond

// Think runs work on its own goroutine and animates a spinner on the console until it returns.
// It blocks until work is done and hands back its result.
func Think[T any](console consoles.Console, text string, work func() (T, error)) (T, error) {
	type outcome struct {
		val T
		err error
	}

	done := make(chan outcome, 1)
	go func() {
		val, err := work()
		done <- outcome{val: val, err: err}
	}()

	out := console.Progress()
	if out == nil {
		o := <-done
		return o.val, o.err
	}

	bar := NewThinkingBar(out, text)
	ticker := time.NewTicker(thinkingTick)
	defer ticker.Stop()

	for {
		select {
		case o := <-done:
			_ = bar.Finish()
			return o.val, o.err

		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}
