// SPDX-License-Identifier: Unlicense OR MIT

// Package dispatch is the engine's sole entry point from outside
// (spec.md §4.10): an Executor draining closures posted from foreign
// threads onto the window-manager thread, and a Dispatcher routing
// input events and output/scene notifications to the Gesture Engine,
// Focus Controller and key bindings in the fixed order spec.md
// requires. Client requests do not pass through the Dispatcher.
package dispatch

import (
	"sync"

	"golang.org/x/sys/unix"
)

// Executor serialises work from foreign producer threads (the input
// device thread, the XWayland worker, the Wayland protocol thread)
// onto the single window-manager thread, per spec.md §5: "External
// producers... post work by enqueuing closures onto an executor that
// is drained from the window-manager thread." It wakes its draining
// goroutine with an eventfd, the same kind of self-pipe primitive the
// teacher's Wayland backend uses to fold foreign event sources into
// one poll loop.
type Executor struct {
	mu      sync.Mutex
	pending []func()
	fd      int
	closed  bool
}

// NewExecutor creates an Executor backed by a Linux eventfd. Callers
// on other goroutines use Post; the window-manager thread calls Wait
// then Drain in a loop.
func NewExecutor() (*Executor, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &Executor{fd: fd}, nil
}

// FD returns the eventfd descriptor, for a caller multiplexing it
// alongside other fds in its own poll/epoll loop.
func (e *Executor) FD() int { return e.fd }

// Post enqueues fn to run on the window-manager thread and wakes it.
// Safe to call from any goroutine.
func (e *Executor) Post(fn func()) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.pending = append(e.pending, fn)
	e.mu.Unlock()

	one := make([]byte, 8)
	one[0] = 1
	_, _ = unix.Write(e.fd, one)
}

// Drain runs every closure queued since the last Drain, in order. It
// must only be called from the window-manager thread.
func (e *Executor) Drain() {
	e.mu.Lock()
	work := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, fn := range work {
		fn()
	}
}

// Wait blocks on the eventfd until Post wakes it, then clears the
// eventfd's counter. Intended to be called from the window-manager
// thread's own loop immediately before Drain.
func (e *Executor) Wait() error {
	buf := make([]byte, 8)
	for {
		_, err := unix.Read(e.fd, buf)
		if err == nil {
			return nil
		}
		if err == unix.EAGAIN {
			var pfd [1]unix.PollFd
			pfd[0] = unix.PollFd{Fd: int32(e.fd), Events: unix.POLLIN}
			if _, perr := unix.Poll(pfd[:], -1); perr != nil && perr != unix.EINTR {
				return perr
			}
			continue
		}
		if err == unix.EINTR {
			continue
		}
		return err
	}
}

// Close releases the eventfd. Pending closures are discarded.
func (e *Executor) Close() error {
	e.mu.Lock()
	e.closed = true
	e.pending = nil
	e.mu.Unlock()
	return unix.Close(e.fd)
}
