package core

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// gatePollMillis bounds how long a read waits before rechecking the gate.
const gatePollMillis = 50

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// stdinGate only reads from its file while it's open.
//
// readline reads its input from a background goroutine that never stops.
// Children share the terminal with the shell, so input must be left unread
// while a command runs: the gate is opened for the duration of a prompt only.
type stdinGate struct {
	f  *os.File
	fd int32

	mu     sync.Mutex
	cond   *sync.Cond
	open   bool
	closed bool
}

func newStdinGate(f *os.File) *stdinGate {
	g := &stdinGate{f: f, fd: int32(f.Fd())}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// SetOpen opens or shuts the gate.
func (g *stdinGate) SetOpen(open bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open = open
	g.cond.Broadcast()
}

// Close permanently shuts the gate, pending and future reads return io.EOF.
func (g *stdinGate) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.cond.Broadcast()
	return nil
}

// wait blocks until the gate is open, it returns false if it was closed.
func (g *stdinGate) wait() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for !g.open && !g.closed {
		g.cond.Wait()
	}
	return !g.closed
}

func (g *stdinGate) isOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open && !g.closed
}

func (g *stdinGate) Read(b []byte) (int, error) {
	for {
		if !g.wait() {
			return 0, io.EOF
		}

		fds := []unix.PollFd{{Fd: g.fd, Events: unix.POLLIN}}
		n, err := unix.Poll(fds, gatePollMillis)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return 0, err
		case n == 0:
			// Timed out, the gate may have shut in the meantime.
			continue
		}

		if !g.isOpen() {
			continue
		}
		return g.f.Read(b)
	}
}

// catchInterrupts keeps SIGINT from killing the shell while leaving its
// default action in children, exec resets caught signals. The returned
// function restores the previous behavior.
func catchInterrupts() (stop func()) {
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, syscall.SIGINT)

	go func() {
		for {
			select {
			case <-sigs:
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
