package alert

import (
	"fmt"
	"runtime"
	"time"

	"github.com/gen2brain/beeep"
)

const (
	defaultTitle   = "focuscup"
	desktopTimeout = 5 * time.Second
)

// Sender raises one desktop notification.
type Sender func(title, message string) error

func beeepSender(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Desktop raises a system notification through beeep (D-Bus or
// notify-send on Linux and the BSDs, Notification Center on macOS, toast
// on Windows).
type Desktop struct {
	Title   string
	GOOS    string
	Timeout time.Duration
	Send    Sender
}

func NewDesktop() *Desktop {
	return &Desktop{
		Title:   defaultTitle,
		GOOS:    runtime.GOOS,
		Timeout: desktopTimeout,
		Send:    beeepSender,
	}
}

func (d *Desktop) Notify(message string) error {
	if !desktopSupported(d.GOOS) {
		return fmt.Errorf("%w on %s", ErrUnsupported, d.GOOS)
	}

	title := d.Title
	if title == "" {
		title = defaultTitle
	}
	send := d.Send
	if send == nil {
		send = beeepSender
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = desktopTimeout
	}

	// send can block on a hung notification daemon.
	done := make(chan error, 1)
	go func() { done <- send(title, message) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("desktop notification: %w", err)
		}
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("desktop notification: timed out after %s", timeout)
	}
}

func desktopSupported(goos string) bool {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "darwin", "windows":
		return true
	}
	return false
}
