package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tinyland-inc/predictree/pkg/tree"
)

// StatusError reports a non-success response from a child call.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("child call to %s: status %d", e.URL, e.StatusCode)
}

// HTTP posts expansion requests back to the walk handler at URL.
type HTTP struct {
	URL    string
	Client *http.Client
}

var _ tree.Transport = (*HTTP)(nil)

// NewHTTP returns an HTTP transport for url. A zero timeout means none;
// streams of deep subtrees can legitimately run for minutes.
func NewHTTP(url string, timeout time.Duration) *HTTP {
	return &HTTP{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (t *HTTP) Open(ctx context.Context, req *tree.ExpansionRequest, hdr http.Header) (io.ReadCloser, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal child request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create child request: %w", err)
	}
	httpReq.Header = ChildHeaders(hdr)

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("child request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: t.URL}
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, nil
	}
	return resp.Body, nil
}
