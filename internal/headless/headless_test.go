package headless

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adibhanna/focuscup/internal/engine"
	"github.com/adibhanna/focuscup/internal/models"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newEngine returns an engine whose scheduler never fires during a test;
// ticks are driven by calling Tick directly.
func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e := engine.New(engine.Options{TickInterval: time.Hour})
	t.Cleanup(e.Close)
	return e
}

// tickPaced gives the runner time to drain its event buffer.
func tickPaced(e *engine.Engine, n int) {
	for i := 0; i < n; i++ {
		e.Tick()
		if i%16 == 15 {
			time.Sleep(time.Millisecond)
		}
	}
}

func runAsync(ctx context.Context, e *engine.Engine, in io.Reader, out io.Writer) <-chan error {
	done := make(chan error, 1)
	go func() { done <- Run(ctx, e, in, out) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not return")
	}
}

func TestRunQuit(t *testing.T) {
	e := newEngine(t)
	var out syncBuffer

	done := runAsync(context.Background(), e, strings.NewReader("status\nquit\n"), &out)
	waitDone(t, done)

	assert.Contains(t, out.String(), usage)
	assert.Contains(t, out.String(), "[focus 25:00] paused, sessions 0/4, cup 0%")
}

func TestRunCommandsDriveEngine(t *testing.T) {
	e := newEngine(t)
	var out syncBuffer
	in, w := io.Pipe()

	done := runAsync(context.Background(), e, in, &out)

	_, err := io.WriteString(w, "start\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return e.State().IsRunning }, time.Second, 5*time.Millisecond)

	tickPaced(e, models.FocusDuration)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), models.FocusCompleteMessage)
	}, time.Second, 5*time.Millisecond)

	_, err = io.WriteString(w, "R\nq\n")
	require.NoError(t, err)
	waitDone(t, done)

	assert.Equal(t, models.InitialState(4), e.State())
	assert.Contains(t, out.String(), "[focus 25:00] start")
	assert.Contains(t, out.String(), "sessions: 1/4, type start to begin the break")
	assert.Contains(t, out.String(), "[focus 24:00] running")
}

func TestRunUnknownCommand(t *testing.T) {
	e := newEngine(t)
	var out syncBuffer

	waitDone(t, runAsync(context.Background(), e, strings.NewReader("brew\nq\n"), &out))
	assert.Contains(t, out.String(), `unknown command "brew"`)
}

func TestRunEndOfInputWhileIdle(t *testing.T) {
	e := newEngine(t)
	var out syncBuffer

	waitDone(t, runAsync(context.Background(), e, strings.NewReader("start\npause\n"), &out))
	assert.False(t, e.State().IsRunning)
}

func TestRunEndOfInputWaitsForBoundary(t *testing.T) {
	e := newEngine(t)
	var out syncBuffer

	done := runAsync(context.Background(), e, strings.NewReader("start\n"), &out)
	require.Eventually(t, func() bool { return e.State().IsRunning }, time.Second, 5*time.Millisecond)

	select {
	case <-done:
		t.Fatal("runner returned while the timer was running")
	case <-time.After(50 * time.Millisecond):
	}

	tickPaced(e, models.FocusDuration)
	waitDone(t, done)
	assert.Equal(t, models.PhaseBreak, e.State().Phase)
}

func TestRunContextCancel(t *testing.T) {
	e := newEngine(t)
	var out syncBuffer
	in, _ := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, e, in, &out)
	cancel()
	waitDone(t, done)
}
