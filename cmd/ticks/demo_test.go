package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/delaneyj/ticksignals/tick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunObserve(t *testing.T) {
	var out bytes.Buffer
	m := tick.New()
	require.NoError(t, runObserve(&out, m, 3))

	assert.Equal(t, strings.Join([]string{
		"x changed to 0",
		"y changed to why",
		"x changed to 1",
		"y changed to u",
		"x changed to 2",
		"y changed to no",
		"",
	}, "\n"), out.String())

	// bindings are gone, signals stay until flushed
	assert.Equal(t, 0, m.Bindings())
	assert.Equal(t, 2, m.Signals())
}

func TestRunObserveWrapsWords(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runObserve(&out, tick.New(), 8))

	// 6*35&6 == 2 and 7*35&7 == 5, words wrap after six
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 16)
	assert.Equal(t, []string{
		"x changed to 2",
		"y changed to why",
		"x changed to 5",
		"y changed to u",
	}, lines[12:])
}

func TestRunQuiz(t *testing.T) {
	var out bytes.Buffer
	m := tick.New()
	in := strings.NewReader("n\n\ny\n")
	require.NoError(t, runQuiz(in, &out, m))

	got := out.String()
	assert.Equal(t, 3, strings.Count(got, "Do you like lolcats"))
	assert.Equal(t, 2, strings.Count(got, "-!- ERROR: YOU ARE ばか！"))
	assert.Equal(t, 1, m.Signals())
}

func TestRunQuizEOF(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runQuiz(strings.NewReader("n\n"), &out, tick.New()))
	assert.Equal(t, 2, strings.Count(out.String(), "Do you like lolcats"))
	assert.Equal(t, 1, strings.Count(out.String(), "ERROR"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestRunQuizWriteError(t *testing.T) {
	err := runQuiz(strings.NewReader("y\n"), failingWriter{}, tick.New())
	assert.EqualError(t, err, "closed")
}
