// Package transport opens the event streams of recursive tree expansions.
//
// HTTP re-enters the walk handler over the network (loopback or a sibling
// replica); Local runs the walk in-process and hands back the same encoded
// byte stream through a pipe. Both satisfy tree.Transport.
package transport

import (
	"context"
	"iter"
	"net/http"

	"github.com/tinyland-inc/predictree/pkg/logger"
	"github.com/tinyland-inc/predictree/pkg/sse"
	"github.com/tinyland-inc/predictree/pkg/tree"
)

// framingHeaders are recomputed per request and never forwarded.
var framingHeaders = []string{
	"Content-Length",
	"Content-Encoding",
	"Transfer-Encoding",
}

// ChildHeaders derives the headers of a child call from its parent's: all
// metadata is kept except framing fields, and the call is marked as a JSON
// request expecting an event stream.
func ChildHeaders(parent http.Header) http.Header {
	h := parent.Clone()
	if h == nil {
		h = http.Header{}
	}
	for _, k := range framingHeaders {
		h.Del(k)
	}
	h.Set("Accept", sse.ContentType)
	h.Set("Content-Type", "application/json")
	return h
}

// Stream opens req through t and decodes it. Failure to open yields an
// empty sequence.
func Stream(ctx context.Context, t tree.Transport, req *tree.ExpansionRequest, hdr http.Header) iter.Seq[sse.Event] {
	return func(yield func(sse.Event) bool) {
		dec, err := tree.OpenStream(ctx, t, req, hdr)
		if err != nil {
			logger.DebugCF("transport", "Stream unavailable", map[string]any{"error": err.Error()})
			return
		}
		if dec == nil {
			return
		}
		for ev := range dec.Events() {
			if !yield(ev) {
				return
			}
		}
	}
}
