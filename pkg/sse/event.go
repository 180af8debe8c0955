// Package sse implements the line-oriented event-stream framing (text/event-stream)
// used between a tree walk and its caller, and between a node and its children.
package sse

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// ContentType is the media type of an encoded event stream.
const ContentType = "text/event-stream"

// Event is one decoded or to-be-encoded frame.
//
// An empty Name or ID means the field is absent. HasData separates an absent
// payload from an explicit null one (HasData with a nil Data).
type Event struct {
	Name    string
	Data    any
	HasData bool
	ID      string
}

// NewEvent returns a named event carrying data.
func NewEvent(name string, data any) Event {
	return Event{Name: name, Data: data, HasData: true}
}

// WithID returns a copy of e with its correlation token set.
func (e Event) WithID(id string) Event {
	e.ID = id
	return e
}

// IsZero reports whether nothing is set on e. Zero events are never emitted.
func (e Event) IsZero() bool {
	return e.Name == "" && e.ID == "" && !e.HasData
}

// Text returns the payload as text, JSON-encoding structured values.
func (e Event) Text() (string, error) {
	if !e.HasData {
		return "", nil
	}
	return payloadText(e.Data)
}

// Decode unmarshals the payload into v through its JSON form.
func (e Event) Decode(v any) error {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// payloadText renders data as the text carried by data lines. CRLF is folded
// to LF, and a CR ending the text is lost on decode because each line's
// trailing CR is stripped.
func payloadText(data any) (string, error) {
	var text string
	switch v := data.(type) {
	case nil:
		return "", nil
	case string:
		text = v
	case json.RawMessage:
		text = string(v)
	case []byte:
		text = string(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		text = string(raw)
	}
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}

// parsePayload turns joined data lines into a payload: empty text is an
// explicit null, valid JSON is its decoded value, anything else is the text.
// Numbers decode as json.Number so forwarded payloads keep their literal form.
func parsePayload(text string) any {
	if text == "" {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return text
	}
	if _, err := dec.Token(); err != io.EOF {
		return text
	}
	return v
}

func trimCR(line []byte) []byte {
	return bytes.TrimSuffix(line, []byte{'\r'})
}
