package sse

import (
	"bytes"
	"errors"
	"io"
	"iter"
	"strings"

	"github.com/tinyland-inc/predictree/pkg/logger"
)

const readChunkSize = 4096

// frame accumulates the fields of the frame being read.
type frame struct {
	name string
	id   string
	data []string
}

func (f *frame) flush() (Event, bool) {
	defer f.reset()
	if len(f.data) == 0 && f.name == "" && f.id == "" {
		return Event{}, false
	}
	ev := Event{Name: f.name, ID: f.id}
	if len(f.data) > 0 {
		ev.Data = parsePayload(strings.Join(f.data, "\n"))
		ev.HasData = true
	}
	return ev, true
}

func (f *frame) reset() {
	f.name = ""
	f.id = ""
	f.data = nil
}

// Decoder incrementally turns a byte stream into Events.
type Decoder struct {
	r     io.ReadCloser
	buf   []byte
	chunk []byte
	cur   frame
	used  bool
	err   error
}

// NewDecoder returns a decoder that owns r and closes it once decoding ends.
func NewDecoder(r io.ReadCloser) *Decoder {
	return &Decoder{r: r, chunk: make([]byte, readChunkSize)}
}

// Decode is a convenience for decoding a reader that needs no release.
func Decode(r io.Reader) iter.Seq[Event] {
	rc, ok := r.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(r)
	}
	return NewDecoder(rc).Events()
}

// Err returns the read error that ended decoding, if it was not io.EOF.
func (d *Decoder) Err() error {
	return d.err
}

// Events returns the decoded event sequence. It can be ranged over once;
// the underlying reader is closed when the sequence ends or the consumer
// stops early.
func (d *Decoder) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if d.used {
			return
		}
		d.used = true
		defer d.release()

		for {
			n, err := d.r.Read(d.chunk)
			if n > 0 {
				d.buf = append(d.buf, d.chunk[:n]...)
				for {
					i := bytes.IndexByte(d.buf, '\n')
					if i < 0 {
						break
					}
					line := string(trimCR(d.buf[:i]))
					d.buf = d.buf[i+1:]
					if ev, ok := d.line(line); ok {
						if !yield(ev) {
							return
						}
					}
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					d.err = err
				}
				break
			}
		}

		// an unterminated trailing line is folded into the frame's data as-is
		if len(d.buf) > 0 {
			if line := string(trimCR(d.buf)); line != "" {
				d.cur.data = append(d.cur.data, line)
			}
			d.buf = nil
		}
		if ev, ok := d.cur.flush(); ok {
			yield(ev)
		}
	}
}

func (d *Decoder) line(line string) (Event, bool) {
	if line == "" {
		return d.cur.flush()
	}
	if line[0] == ':' {
		return Event{}, false
	}

	field, value := line, ""
	if i := strings.IndexByte(line, ':'); i >= 0 {
		field = line[:i]
		value = line[i+1:]
		value = strings.TrimPrefix(value, " ")
	}

	switch field {
	case "event":
		d.cur.name = value
	case "data":
		d.cur.data = append(d.cur.data, value)
	case "id":
		d.cur.id = value
	default:
		// retry and unknown fields are legal but carry nothing we emit
	}
	return Event{}, false
}

func (d *Decoder) release() {
	if err := d.r.Close(); err != nil {
		logger.DebugCF("sse", "Releasing stream failed", map[string]any{"error": err.Error()})
	}
}
