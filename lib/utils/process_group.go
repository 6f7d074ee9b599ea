package utils

import (
	"runtime"
	"sync"
)

type ParallelOptions struct {
	Routines     int
	InputFactor  int
	OutputFactor int
}

func ParallelFor[T, O any](col []T, proc func(T) (O, error), opts ...ParallelOptions) *ProcessGroup[T, O] {
	group := NewProcessGroup(proc, opts...)

	go func() {
		defer group.FinishedInput()

		for _, w := range col {
			select {
			case <-group.abort:
				return
			case group.Input <- w:
			}
		}
	}()

	return group
}

// ParallelMap runs proc over col with a ProcessGroup and returns the outputs in the order of col.
func ParallelMap[T, O any](col []T, proc func(T) (O, error), opts ...ParallelOptions) ([]O, error) {
	type indexed struct {
		index int
		input T
	}
	type result struct {
		index  int
		output O
	}

	inputs := make([]indexed, len(col))
	for i, c := range col {
		inputs[i] = indexed{index: i, input: c}
	}

	group := ParallelFor(inputs, func(in indexed) (result, error) {
		output, err := proc(in.input)
		return result{index: in.index, output: output}, err
	}, opts...)

	outputs := make([]O, len(col))
	for r := range group.Output {
		outputs[r.index] = r.output
	}

	err := group.Error()
	if err != nil {
		return nil, err
	}

	return outputs, nil
}

type ProcessGroup[I, O any] struct {
	proc      func(I) (O, error)
	abort     chan struct{}
	abortOnce sync.Once
	wg        sync.WaitGroup

	Input  chan I
	Output chan O
	Err    chan error
}

func NewProcessGroup[I, O any](proc func(I) (O, error), opts ...ParallelOptions) *ProcessGroup[I, O] {
	o := ParallelOptions{
		Routines:     Max(Min(runtime.GOMAXPROCS(-1), runtime.NumCPU()/2)-1, 1),
		InputFactor:  2,
		OutputFactor: 2,
	}
	for _, oi := range opts {
		if oi.Routines > 0 {
			o.Routines = oi.Routines
		}
		if oi.InputFactor > 0 {
			o.InputFactor = oi.InputFactor
		}
		if oi.OutputFactor > 0 {
			o.OutputFactor = oi.OutputFactor
		}
	}

	group := ProcessGroup[I, O]{
		proc:  proc,
		abort: make(chan struct{}),

		Input:  make(chan I, o.InputFactor*o.Routines),
		Output: make(chan O, o.OutputFactor*o.Routines),
		Err:    make(chan error, 1),
	}

	for i := 0; i < o.Routines; i++ {
		group.wg.Add(1)
		go group.runProcessor()
	}

	go func() {
		group.wg.Wait()
		close(group.Output)
		close(group.Err)
	}()

	return &group
}

func (g *ProcessGroup[I, O]) runProcessor() {
	defer g.wg.Done()

	for {
		select {
		case <-g.abort:
			return

		case input, ok := <-g.Input:
			if !ok {
				return
			}

			output, err := g.proc(input)
			if err != nil {
				g.Abort(err)
				return
			}

			select {
			case <-g.abort:
				return
			case g.Output <- output:
			}
		}
	}
}

func (g *ProcessGroup[I, O]) FinishedInput() {
	close(g.Input)
}

// Abort stops every processor. Only the first error is kept.
func (g *ProcessGroup[I, O]) Abort(err error) {
	g.abortOnce.Do(func() {
		g.Err <- err
		close(g.abort)
	})
}

// Error waits for all processors to finish and returns the error that aborted them, if any.
func (g *ProcessGroup[I, O]) Error() error {
	g.wg.Wait()
	return <-g.Err
}
