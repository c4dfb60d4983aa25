package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line with the elapsed time while a slow export
// (rasterizing, PDF conversion) runs.
type spinner struct {
	w       io.Writer
	message string
	start   time.Time
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// startSpinner animates message on w until stop is called or ctx is done.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	s := &spinner{
		w:       w,
		message: message,
		start:   time.Now(),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			elapsed := time.Since(s.start).Round(100 * time.Millisecond)
			fmt.Fprintf(s.w, "\r%s %s %s",
				styleSpinner.Render(spinnerFrames[i%len(spinnerFrames)]),
				StyleDim.Render(s.message),
				StyleDim.Render(elapsed.String()))
		}
	}
}

// stop ends the animation and clears the line. Later calls do nothing.
func (s *spinner) stop() {
	s.once.Do(func() {
		close(s.done)
		<-s.stopped
		fmt.Fprint(s.w, "\r\033[K")
	})
}

// spin runs fn while a spinner shows message on stderr.
func spin[T any](ctx context.Context, message string, fn func() (T, error)) (T, error) {
	s := startSpinner(ctx, os.Stderr, message)
	defer s.stop()
	return fn()
}
