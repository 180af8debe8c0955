package sse

import (
	"encoding/json"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackingReader struct {
	io.Reader
	closed   int
	closeErr error
}

func (r *trackingReader) Close() error {
	r.closed++
	return r.closeErr
}

func decodeAll(t *testing.T, input string) []Event {
	t.Helper()
	return slices.Collect(Decode(strings.NewReader(input)))
}

func TestDecode_BasicFrames(t *testing.T) {
	events := decodeAll(t, "event: prediction\ndata: {\"depth\":1}\nid: 7\n\nevent: done\ndata: bye\n\n")
	require.Len(t, events, 2)

	assert.Equal(t, "prediction", events[0].Name)
	assert.Equal(t, "7", events[0].ID)
	assert.True(t, events[0].HasData)
	assert.Equal(t, map[string]any{"depth": json.Number("1")}, events[0].Data)

	assert.Equal(t, "done", events[1].Name)
	assert.Equal(t, "bye", events[1].Data)
	assert.Empty(t, events[1].ID)
}

func TestDecode_MultipleDataLinesJoined(t *testing.T) {
	events := decodeAll(t, "data: first\ndata: second\n\n")
	require.Len(t, events, 1)
	assert.Equal(t, "first\nsecond", events[0].Data)
}

func TestDecode_ChunkBoundaries(t *testing.T) {
	input := "event: a\r\ndata: {\"k\":\r\ndata: \"v\"}\r\n\r\n"
	r := iotest.OneByteReader(strings.NewReader(input))
	events := slices.Collect(Decode(r))
	require.Len(t, events, 1)
	assert.Equal(t, "a", events[0].Name)
	assert.Equal(t, map[string]any{"k": "v"}, events[0].Data)
}

func TestDecode_CommentsAndBlankLinesYieldNothing(t *testing.T) {
	events := decodeAll(t, ": keep-alive\n\n\n: another\n\n")
	assert.Empty(t, events)
}

func TestDecode_EmptyDataIsExplicitNull(t *testing.T) {
	events := decodeAll(t, "event: ping\ndata:\n\n")
	require.Len(t, events, 1)
	assert.True(t, events[0].HasData)
	assert.Nil(t, events[0].Data)
}

func TestDecode_NameOnlyHasNoPayload(t *testing.T) {
	events := decodeAll(t, "event: ping\n\n")
	require.Len(t, events, 1)
	assert.False(t, events[0].HasData)
}

func TestDecode_MalformedJSONFallsBackToText(t *testing.T) {
	events := decodeAll(t, "data: {\"broken\": \n\ndata: 1 2\n\n")
	require.Len(t, events, 2)
	assert.Equal(t, `{"broken": `, events[0].Data)
	assert.Equal(t, "1 2", events[1].Data)
}

func TestDecode_FieldParsing(t *testing.T) {
	// one leading space stripped, the rest kept; no colon means empty value;
	// retry and unknown fields are dropped
	events := decodeAll(t, "data:  two spaces\nretry: 3000\nfoo: bar\ndata\n\n")
	require.Len(t, events, 1)
	assert.Equal(t, " two spaces\n", events[0].Data)
	assert.Empty(t, events[0].Name)
	assert.Empty(t, events[0].ID)
}

func TestDecode_EventNameOverwritten(t *testing.T) {
	events := decodeAll(t, "event: a\nevent: b\ndata: x\n\n")
	require.Len(t, events, 1)
	assert.Equal(t, "b", events[0].Name)
}

func TestDecode_TrailingUnterminatedLine(t *testing.T) {
	events := decodeAll(t, "event: tail\ndata: one\nlast words\r")
	require.Len(t, events, 1)
	assert.Equal(t, "tail", events[0].Name)
	assert.Equal(t, "one\nlast words", events[0].Data)
}

func TestDecode_FinalFrameWithoutBlankLine(t *testing.T) {
	events := decodeAll(t, "data: a\n\ndata: b\n")
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[1].Data)
}

func TestDecoder_ReleasesReaderOnExhaustion(t *testing.T) {
	r := &trackingReader{Reader: strings.NewReader("data: x\n\n")}
	dec := NewDecoder(r)
	events := slices.Collect(dec.Events())
	assert.Len(t, events, 1)
	assert.Equal(t, 1, r.closed)
	assert.NoError(t, dec.Err())
}

func TestDecoder_ReleasesReaderOnEarlyStop(t *testing.T) {
	r := &trackingReader{Reader: strings.NewReader("data: 1\n\ndata: 2\n\ndata: 3\n\n")}
	dec := NewDecoder(r)
	for range dec.Events() {
		break
	}
	assert.Equal(t, 1, r.closed)
}

func TestDecoder_ReleaseFailureIsSwallowed(t *testing.T) {
	r := &trackingReader{Reader: strings.NewReader("data: x\n\n"), closeErr: errors.New("already gone")}
	events := slices.Collect(NewDecoder(r).Events())
	assert.Len(t, events, 1)
	assert.Equal(t, 1, r.closed)
}

func TestDecoder_ReadErrorEndsSequence(t *testing.T) {
	boom := errors.New("connection reset")
	r := &trackingReader{Reader: io.MultiReader(strings.NewReader("data: a\n\ndata: partial"), iotest.ErrReader(boom))}
	dec := NewDecoder(r)
	events := slices.Collect(dec.Events())
	require.Len(t, events, 2)
	// the unterminated remainder is kept verbatim as data
	assert.Equal(t, "data: partial", events[1].Data)
	assert.ErrorIs(t, dec.Err(), boom)
	assert.Equal(t, 1, r.closed)
}

func TestDecoder_NotRestartable(t *testing.T) {
	dec := NewDecoder(io.NopCloser(strings.NewReader("data: x\n\n")))
	assert.Len(t, slices.Collect(dec.Events()), 1)
	assert.Empty(t, slices.Collect(dec.Events()))
}
