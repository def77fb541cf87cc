package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels long-running commands on SIGINT/SIGTERM and
// tells the user what happened to their data.
type InterruptHandler struct {
	writer      io.Writer
	cancel      context.CancelFunc
	savedNote   string
	mu          sync.Mutex
	interrupted bool
}

// NewInterruptHandler creates a handler that reports to writer (stderr when nil).
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stderr
	}
	return &InterruptHandler{writer: writer}
}

// HandleInterrupts returns a context canceled on the first interrupt.
// savedNote is printed after the warning, e.g. "12 transactions were saved".
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, savedNote string) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.savedNote = savedNote

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			h.trigger()
		case <-ctx.Done():
		}
	}()

	return ctx
}

func (h *InterruptHandler) trigger() {
	h.mu.Lock()
	first := !h.interrupted
	h.interrupted = true
	h.mu.Unlock()

	if first {
		h.report()
	}
	if h.cancel != nil {
		h.cancel()
	}
}

func (h *InterruptHandler) report() {
	msg := "\n" + FormatWarning("Interrupted!")
	if h.savedNote != "" {
		msg += "\n" + FormatInfo(h.savedNote)
	}
	msg += "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted reports whether an interrupt arrived.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}

// Stop releases the signal handler without reporting an interrupt.
func (h *InterruptHandler) Stop() {
	if h.cancel != nil {
		h.cancel()
	}
}
