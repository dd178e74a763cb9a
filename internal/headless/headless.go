// Package headless drives the timer from line-oriented commands when no
// terminal is attached, printing phase boundaries and a once-a-minute
// countdown.
package headless

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/adibhanna/focuscup/internal/engine"
	"github.com/adibhanna/focuscup/internal/models"
)

// Timer is the command and observation surface the runner needs.
type Timer interface {
	Start()
	Pause()
	Reset()
	ResetAll()
	State() models.TimerState
	Subscribe(buffer int) <-chan engine.Event
	Unsubscribe(events <-chan engine.Event)
}

const usage = "commands: start (s), pause (p), reset (r), resetall (R), status, quit (q)"

// Run reads commands from in until quit, context cancellation, or end of
// input. After end of input it keeps reporting until the timer stops.
func Run(ctx context.Context, timer Timer, in io.Reader, out io.Writer) error {
	events := timer.Subscribe(64)
	defer timer.Unsubscribe(events)
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	fmt.Fprintln(out, usage)
	printState(out, timer.State())

	inputClosed := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case line, ok := <-lines:
			if !ok {
				lines = nil
				inputClosed = true
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read commands: %w", err)
					}
				default:
				}
				if !timer.State().IsRunning {
					return nil
				}
				continue
			}
			if quit := handle(strings.TrimSpace(line), timer, out); quit {
				return nil
			}

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			report(out, ev)
			if inputClosed && !ev.State.IsRunning {
				return nil
			}
		}
	}
}

func handle(command string, timer Timer, out io.Writer) bool {
	switch command {
	case "":
	case "start", "s":
		timer.Start()
	case "pause", "p":
		timer.Pause()
	case "reset", "r":
		timer.Reset()
	case "resetall", "R":
		timer.ResetAll()
	case "status":
		printState(out, timer.State())
	case "quit", "q", "exit":
		return true
	default:
		fmt.Fprintf(out, "unknown command %q; %s\n", command, usage)
	}
	return false
}

func report(out io.Writer, ev engine.Event) {
	switch ev.Type {
	case engine.EventCommand:
		fmt.Fprintf(out, "%s %s\n", prefix(ev.State), ev.Command)
	case engine.EventTransition:
		fmt.Fprintf(out, "%s %s\n", prefix(ev.State), ev.Transition.Message)
		fmt.Fprintf(out, "sessions: %d/%d, type start to begin the %s\n",
			ev.State.CompletedSessions, ev.State.TotalSessions, ev.State.Phase)
	case engine.EventTick:
		if ev.State.SecondsRemaining%60 == 0 {
			printState(out, ev.State)
		}
	}
}

func printState(out io.Writer, s models.TimerState) {
	status := "paused"
	if s.IsRunning {
		status = "running"
	}
	fmt.Fprintf(out, "%s %s, sessions %d/%d, cup %.0f%%\n",
		prefix(s), status, s.CompletedSessions, s.TotalSessions, s.FillPercentage())
}

func prefix(s models.TimerState) string {
	return fmt.Sprintf("[%s %s]", s.Phase, s.Clock())
}
