package utils

import (
	"bytes"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pescuma/cheeky/lib/consoles"
)

func TestMinMaxIIf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, Min(3, 1, 2))
	assert.Equal(t, 3, Max(3, 1, 2))
	assert.Equal(t, "a", IIf(true, "a", "b"))
	assert.Equal(t, "b", IIf(false, "a", "b"))
}

func TestParallelMapKeepsOrder(t *testing.T) {
	t.Parallel()

	input := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	result, err := ParallelMap(input, func(i int) (int, error) {
		time.Sleep(time.Duration(10-i) * time.Millisecond)
		return i * i, nil
	}, ParallelOptions{Routines: 4})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 9, 16, 25, 36, 49, 64, 81, 100}, result)
}

func TestParallelMapEmpty(t *testing.T) {
	t.Parallel()

	result, err := ParallelMap([]string{}, func(s string) (string, error) {
		return s, nil
	})

	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestParallelMapReturnsFirstError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var calls atomic.Int32

	result, err := ParallelMap([]int{1, 2, 3, 4, 5}, func(i int) (int, error) {
		calls.Add(1)
		if i == 3 {
			return 0, boom
		}
		return i, nil
	}, ParallelOptions{Routines: 2})

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, result)
	assert.LessOrEqual(t, calls.Load(), int32(5))
}

func TestThinkSilent(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	console := consoles.NewConsole(out, out, true)

	result, err := Think(console, "Generating summary...", func() (string, error) {
		return "done", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Empty(t, out.String())
}

func TestThinkAnimatesAndReturnsError(t *testing.T) {
	t.Parallel()

	progress := &bytes.Buffer{}
	console := consoles.NewConsole(io.Discard, progress, false)
	boom := errors.New("boom")

	_, err := Think(console, "Comparing commit messages...", func() (int, error) {
		time.Sleep(2 * thinkingTick)
		return 0, boom
	})

	assert.ErrorIs(t, err, boom)
}
