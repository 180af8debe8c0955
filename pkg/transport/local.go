package transport

import (
	"context"
	"io"
	"net/http"

	"github.com/tinyland-inc/predictree/pkg/sse"
	"github.com/tinyland-inc/predictree/pkg/tree"
)

// Local expands children in-process. The child walk writes encoded frames
// into a pipe that the caller decodes like any network body.
type Local struct {
	Walker tree.Walker
}

var _ tree.Transport = (*Local)(nil)

func (t *Local) Open(ctx context.Context, req *tree.ExpansionRequest, hdr http.Header) (io.ReadCloser, error) {
	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	child := ChildHeaders(hdr)

	go func() {
		w := sse.NewWriter(pw)
		err := t.Walker.Walk(ctx, req, child, w.Send)
		pw.CloseWithError(err)
	}()

	return &localBody{PipeReader: pr, cancel: cancel}, nil
}

// localBody stops the child walk when the reader is released.
type localBody struct {
	*io.PipeReader
	cancel context.CancelFunc
}

func (b *localBody) Close() error {
	b.cancel()
	return b.PipeReader.Close()
}
