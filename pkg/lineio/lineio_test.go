package lineio_test

import (
	"bufio"
	"context"
	"github.com/herohde/usitourney/pkg/lineio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
	"time"
)

type bufWriter struct {
	*bufio.Writer
}

func newPipe() (*lineio.LineIO, io.WriteCloser, *bufio.Reader) {
	pr, pw := io.Pipe()
	cr, cw := io.Pipe()

	l := lineio.New(pr, bufWriter{bufio.NewWriter(cw)})
	return l, pw, bufio.NewReader(cr)
}

func TestReadDeliversCompleteLines(t *testing.T) {
	l, pw, _ := newPipe()

	go func() {
		_, _ = io.WriteString(pw, "info depth 1\nbestmove 7g7f\n")
	}()

	var lines []string
	status, err := l.Read(context.Background(), time.Second, func(line string) lineio.Decision {
		lines = append(lines, line)
		if line == "bestmove 7g7f" {
			return lineio.Stop
		}
		return lineio.Continue
	})

	require.NoError(t, err)
	assert.Equal(t, lineio.StatusOK, status)
	assert.Equal(t, []string{"info depth 1", "bestmove 7g7f"}, lines)
}

func TestReadTimesOut(t *testing.T) {
	l, _, _ := newPipe()

	status, err := l.Read(context.Background(), 20*time.Millisecond, func(line string) lineio.Decision {
		return lineio.Continue
	})

	require.NoError(t, err)
	assert.Equal(t, lineio.StatusTimeout, status)
}

func TestReadPartialLineSurvivesAcrossReads(t *testing.T) {
	l, pw, _ := newPipe()

	go func() {
		_, _ = io.WriteString(pw, "info dep")
		time.Sleep(10 * time.Millisecond)
		_, _ = io.WriteString(pw, "th 3\n")
	}()

	var got string
	status, err := l.Read(context.Background(), time.Second, func(line string) lineio.Decision {
		got = line
		return lineio.Stop
	})

	require.NoError(t, err)
	assert.Equal(t, lineio.StatusOK, status)
	assert.Equal(t, "info depth 3", got)
}

func TestReadDisconnected(t *testing.T) {
	l, pw, _ := newPipe()
	_ = pw.Close()

	status, err := l.Read(context.Background(), time.Second, func(line string) lineio.Decision {
		return lineio.Continue
	})

	assert.Error(t, err)
	assert.Equal(t, lineio.StatusDisconnected, status)
}

func TestReadInvalidUTF8(t *testing.T) {
	l, pw, _ := newPipe()

	go func() {
		_, _ = pw.Write([]byte{0xff, 0xfe, '\n'})
	}()

	status, err := l.Read(context.Background(), time.Second, func(line string) lineio.Decision {
		return lineio.Continue
	})

	assert.ErrorIs(t, err, lineio.ErrInvalidUTF8)
	assert.Equal(t, lineio.StatusDisconnected, status)
}

func TestWriteLine(t *testing.T) {
	l, _, cr := newPipe()

	// The flush into an io.Pipe blocks until the other end reads, so write
	// from a goroutine.
	writeErr := make(chan error, 1)
	go func() { writeErr <- l.WriteLine(context.Background(), "isready") }()

	line, err := cr.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "isready\n", line)
	require.NoError(t, <-writeErr)
}
