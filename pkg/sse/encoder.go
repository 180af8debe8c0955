package sse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInvalidField is returned when an event name or id would break framing.
var ErrInvalidField = errors.New("sse: field contains a line break")

// Marshal encodes one event as a frame. A zero event encodes to nothing.
func Marshal(ev Event) ([]byte, error) {
	if ev.IsZero() {
		return nil, nil
	}
	if strings.ContainsAny(ev.Name, "\r\n") || strings.ContainsAny(ev.ID, "\r\n") {
		return nil, ErrInvalidField
	}

	var buf bytes.Buffer
	if ev.Name != "" {
		buf.WriteString("event: ")
		buf.WriteString(ev.Name)
		buf.WriteByte('\n')
	}
	if ev.HasData {
		text, err := payloadText(ev.Data)
		if err != nil {
			return nil, fmt.Errorf("encoding %q payload: %w", ev.Name, err)
		}
		for line := range strings.SplitSeq(text, "\n") {
			buf.WriteString("data: ")
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	if ev.ID != "" {
		buf.WriteString("id: ")
		buf.WriteString(ev.ID)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Encode writes one encoded event to w.
func Encode(w io.Writer, ev Event) error {
	b, err := Marshal(ev)
	if err != nil || len(b) == 0 {
		return err
	}
	_, err = w.Write(b)
	return err
}

type flusher interface {
	Flush()
}

// Writer sends events to a stream, flushing after each one when the
// destination supports it (http.ResponseWriter does).
type Writer struct {
	mu sync.Mutex
	w  io.Writer
	f  flusher
	n  int
}

func NewWriter(w io.Writer) *Writer {
	f, _ := w.(flusher)
	return &Writer{w: w, f: f}
}

// Send encodes and writes ev. It is safe for concurrent use; frames are
// never interleaved.
func (w *Writer) Send(ev Event) error {
	if ev.IsZero() {
		return nil
	}
	b, err := Marshal(ev)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	w.n++
	if w.f != nil {
		w.f.Flush()
	}
	return nil
}

// Comment writes a comment line, ignored by decoders. Useful as a keep-alive.
func (w *Writer) Comment(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintf(w.w, ": %s\n\n", strings.ReplaceAll(text, "\n", " ")); err != nil {
		return err
	}
	if w.f != nil {
		w.f.Flush()
	}
	return nil
}

// Count returns how many events were sent.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}
