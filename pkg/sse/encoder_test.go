package sse

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_Layout(t *testing.T) {
	b, err := Marshal(NewEvent("prediction", "line one\nline two").WithID("42"))
	require.NoError(t, err)
	assert.Equal(t, "event: prediction\ndata: line one\ndata: line two\nid: 42\n\n", string(b))
}

func TestMarshal_StructuredPayload(t *testing.T) {
	b, err := Marshal(NewEvent("complete", map[string]any{"depth": 0, "branchCount": 2}))
	require.NoError(t, err)
	assert.Equal(t, "event: complete\ndata: {\"branchCount\":2,\"depth\":0}\n\n", string(b))
}

func TestMarshal_NullPayload(t *testing.T) {
	b, err := Marshal(NewEvent("ping", nil))
	require.NoError(t, err)
	assert.Equal(t, "event: ping\ndata: \n\n", string(b))
}

func TestMarshal_ZeroEvent(t *testing.T) {
	b, err := Marshal(Event{})
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestMarshal_RejectsLineBreakInName(t *testing.T) {
	_, err := Marshal(Event{Name: "a\nb"})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestRoundTrip_TextPayloads(t *testing.T) {
	events := []Event{
		NewEvent("greeting", "hello there"),
		NewEvent("multi", "a\nb\n\nc"),
		{Data: "no name", HasData: true, ID: "1"},
		{Name: "nameonly", ID: "2"},
		NewEvent("nullish", nil),
	}

	var buf bytes.Buffer
	for _, ev := range events {
		require.NoError(t, Encode(&buf, ev))
	}
	got := slices.Collect(Decode(&buf))
	assert.Equal(t, events, got)
}

func TestRoundTrip_CarriageReturnsNormalised(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello\r", "hello"},
		{"a\r\nb", "a\nb"},
		{"a\rb", "a\rb"},
		{"a\r\n\r\nb", "a\n\nb"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, NewEvent("x", tt.in)))
		got := slices.Collect(Decode(&buf))
		require.Len(t, got, 1, "input %q", tt.in)
		assert.Equal(t, tt.want, got[0].Data, "input %q", tt.in)
	}
}

func TestRoundTrip_StructuredPayload(t *testing.T) {
	payload := map[string]any{
		"message":    map[string]any{"id": "m1", "side": "left", "content": "hi\nthere"},
		"depth":      1,
		"branchPath": []int{0},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, NewEvent("prediction", payload)))

	got := slices.Collect(Decode(&buf))
	require.Len(t, got, 1)
	assert.Equal(t, "prediction", got[0].Name)

	want, err := json.Marshal(payload)
	require.NoError(t, err)
	have, err := json.Marshal(got[0].Data)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(have))
}

func TestEvent_Decode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, NewEvent("complete", map[string]any{"depth": 0, "branchCount": 3})))
	got := slices.Collect(Decode(&buf))
	require.Len(t, got, 1)

	var v struct {
		Depth       int `json:"depth"`
		BranchCount int `json:"branchCount"`
	}
	require.NoError(t, got[0].Decode(&v))
	assert.Equal(t, 3, v.BranchCount)
}

func TestWriter_FlushesEachEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewWriter(rec)

	require.NoError(t, w.Send(NewEvent("a", "1")))
	require.NoError(t, w.Send(Event{}))
	require.NoError(t, w.Comment("keep-alive"))
	require.NoError(t, w.Send(NewEvent("b", "2")))

	assert.True(t, rec.Flushed)
	assert.Equal(t, 2, w.Count())
	assert.Equal(t, "event: a\ndata: 1\n\n: keep-alive\n\nevent: b\ndata: 2\n\n", rec.Body.String())

	got := slices.Collect(Decode(bytes.NewReader(rec.Body.Bytes())))
	assert.Len(t, got, 2)
}
