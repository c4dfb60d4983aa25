package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Rasterizing")
	time.Sleep(3 * spinnerInterval)
	s.stop()

	out := buf.String()
	if !strings.Contains(out, "Rasterizing") {
		t.Errorf("output should contain the message, got %q", out)
	}
	if !strings.Contains(out, spinnerFrames[0]) {
		t.Errorf("output should contain the first frame, got %q", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Errorf("stop should clear the line, got %q", out)
	}
}

func TestSpinnerStopTwice(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Converting to PDF")
	s.stop()
	n := buf.Len()
	s.stop()
	if buf.Len() != n {
		t.Error("second stop should not write")
	}
}

func TestSpinnerEndsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := startSpinner(ctx, &buf, "Rasterizing")
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner should stop when the context is cancelled")
	}
	s.stop()
}

func TestSpin(t *testing.T) {
	got, err := spin(context.Background(), "Rasterizing", func() ([]byte, error) {
		return []byte("png"), nil
	})
	if err != nil || string(got) != "png" {
		t.Errorf("spin() = %q, %v; want png, nil", got, err)
	}

	want := errors.New("rsvg-convert failed")
	if _, err := spin(context.Background(), "Rasterizing", func() (int, error) { return 0, want }); !errors.Is(err, want) {
		t.Errorf("spin() error = %v, want %v", err, want)
	}
}
