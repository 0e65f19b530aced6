package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/delaneyj/ticksignals/tick"
)

var words = []string{
	"why",
	"u",
	"no",
	"like",
	"lolcats",
	"!?",
}

func runObserve(w io.Writer, m *tick.Machine, iterations int) error {
	x := 5
	first := "I don't like lolcats"
	y := &first

	xs, err := tick.Observe(m, &x)
	if err != nil {
		return err
	}
	ys, err := tick.ObservePointer(m, &y)
	if err != nil {
		return err
	}

	xb, err := m.Bind(xs, func(s *tick.Signal) error {
		v, _ := tick.ValueOf[int](s)
		_, err := fmt.Fprintf(w, "x changed to %d\n", v)
		return err
	})
	if err != nil {
		return err
	}
	yb, err := m.Bind(ys, func(s *tick.Signal) error {
		v, _ := tick.ValueOf[*string](s)
		_, err := fmt.Fprintf(w, "y changed to %s\n", *v)
		return err
	})
	if err != nil {
		return err
	}

	for i := 0; i < iterations; i++ {
		x = i * 35 & i
		y = &words[i%len(words)]
		m.Advance()
	}

	xb.Remove()
	yb.Remove()
	return nil
}

// runQuiz reads answers from r until one starts with 'y'. Every other answer
// raises an exception signal from inside the input callback, which is
// reported on the following advance.
func runQuiz(r io.Reader, w io.Writer, m *tick.Machine) error {
	input, err := tick.NewEvent(m)
	if err != nil {
		return err
	}
	exception, err := tick.NewEvent(m)
	if err != nil {
		return err
	}

	done := false
	if _, err := m.Bind(input, func(s *tick.Signal) error {
		ch, _ := tick.ValueOf[byte](s)
		done = ch == 'y'
		if !done {
			exception.Emit("YOU ARE ばか！")
		}
		return nil
	}); err != nil {
		return err
	}
	if _, err := m.Bind(exception, func(s *tick.Signal) error {
		msg, _ := tick.ValueOf[string](s)
		_, err := fmt.Fprintf(w, "-!- ERROR: %s\n", msg)
		return err
	}); err != nil {
		return err
	}

	scanner := bufio.NewScanner(r)
	for !done {
		if _, err := fmt.Fprintln(w, "-!- Do you like lolcats? [y/n]?"); err != nil {
			return err
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Bytes()
		ch := byte('\n')
		if len(line) > 0 {
			ch = line[0]
		}
		input.Emit(ch)
		m.Advance()

		if exception.State() == tick.StateEmitted {
			m.Advance()
		}
	}

	input.Remove()
	return nil
}
