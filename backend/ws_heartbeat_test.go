package main

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
	"time"
)

type recordingWriter struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
}

func (w *recordingWriter) WriteMessage(_ int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return fmt.Errorf("write refused")
	}
	w.frames = append(w.frames, append([]byte(nil), data...))
	return nil
}

func (w *recordingWriter) snapshot() [][]byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([][]byte(nil), w.frames...)
}

func TestHeartbeatForwardsMessagesUntilClose(t *testing.T) {
	writer := &recordingWriter{}
	send := make(chan []byte, 2)
	send <- []byte(`{"type":"status"}`)
	send <- []byte(`{"type":"history"}`)
	close(send)

	if err := writeWSWithHeartbeat(writer, send, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frames := writer.snapshot()
	if len(frames) != 2 {
		t.Fatalf("expected 2 forwarded frames, got %d", len(frames))
	}
}

func TestHeartbeatPingsIdleConnection(t *testing.T) {
	writer := &recordingWriter{}
	send := make(chan []byte)
	done := make(chan error, 1)
	go func() {
		done <- writeWSWithHeartbeat(writer, send, 10*time.Millisecond)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatalf("no ping emitted on idle connection")
		}
		pinged := false
		for _, frame := range writer.snapshot() {
			if bytes.Contains(frame, []byte(`"ping"`)) {
				pinged = true
			}
		}
		if pinged {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	close(send)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error after close: %v", err)
	}
}

func TestHeartbeatStopsOnWriteError(t *testing.T) {
	writer := &recordingWriter{fail: true}
	send := make(chan []byte, 1)
	send <- []byte(`{"type":"status"}`)
	if err := writeWSWithHeartbeat(writer, send, time.Minute); err == nil {
		t.Fatalf("expected write failure to end the loop")
	}
}
