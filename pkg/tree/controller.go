package tree

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/tinyland-inc/predictree/pkg/logger"
	"github.com/tinyland-inc/predictree/pkg/metrics"
	"github.com/tinyland-inc/predictree/pkg/sse"
)

// Emitter receives every event a walk produces, in order. A returned error
// aborts the walk.
type Emitter func(sse.Event) error

// Walker expands one node of the tree.
type Walker interface {
	Walk(ctx context.Context, req *ExpansionRequest, hdr http.Header, emit Emitter) error
}

// Transport opens the event stream of a recursive expansion of req. hdr is
// the metadata of the request that triggered it. A nil body with a nil error
// is an empty stream.
type Transport interface {
	Open(ctx context.Context, req *ExpansionRequest, hdr http.Header) (io.ReadCloser, error)
}

// OpenStream opens req through t and returns a decoder over its events. A nil
// decoder with a nil error is an empty stream.
func OpenStream(ctx context.Context, t Transport, req *ExpansionRequest, hdr http.Header) (*sse.Decoder, error) {
	body, err := t.Open(ctx, req, hdr)
	if err != nil || body == nil {
		return nil, err
	}
	return sse.NewDecoder(body), nil
}

// Controller walks the tree depth-first. Siblings of one node are generated
// concurrently but expanded strictly one after another.
type Controller struct {
	Generator Generator
	Transport Transport
	Limits    Limits
	// Concurrency bounds in-flight Generate calls per node; <= 0 means all siblings at once.
	Concurrency int
	Metrics     *metrics.Metrics
}

var _ Walker = (*Controller)(nil)

type branch struct {
	message Message
	path    BranchPath
}

func (c *Controller) Walk(ctx context.Context, req *ExpansionRequest, hdr http.Header, emit Emitter) error {
	breadth, maxDepth := c.Limits.Clamp(req.MessageBreadth, req.MaxDepth)
	depth := req.Depth
	root := depth == 0

	defer c.Metrics.WalkStarted(strconv.Itoa(depth))()
	emit = c.counting(emit)

	if root {
		if err := emit(HistoryEvent(req.History)); err != nil {
			return err
		}
	}

	if breadth <= 0 || depth >= maxDepth {
		if root {
			return emit(CompleteEvent(depth, 0))
		}
		return nil
	}

	branches := c.generate(ctx, req, breadth)
	logger.DebugCF("walk", "Siblings generated", map[string]any{
		"depth":     depth,
		"path":      req.BranchPath.Label(),
		"requested": breadth,
		"accepted":  len(branches),
	})

	for _, b := range branches {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(PredictionEvent(b.message, depth+1, b.path)); err != nil {
			return err
		}
		if depth+1 < maxDepth {
			if err := c.expand(ctx, req.Child(b.message, b.path), hdr, emit); err != nil {
				return err
			}
		}
		if err := emit(BranchCompleteEvent(depth+1, b.path)); err != nil {
			return err
		}
	}

	if root {
		return emit(CompleteEvent(depth, len(branches)))
	}
	return nil
}

// generate asks for every sibling concurrently and keeps the accepted ones in
// index order.
func (c *Controller) generate(ctx context.Context, req *ExpansionRequest, breadth int) []branch {
	results := make([]Result, breadth)
	paths := make([]BranchPath, breadth)

	var g errgroup.Group
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for i := range breadth {
		paths[i] = req.BranchPath.Child(i)
		g.Go(func() error {
			results[i] = c.Generator.Generate(ctx, req.History, paths[i])
			return nil
		})
	}
	_ = g.Wait()

	depthLabel := strconv.Itoa(req.Depth + 1)
	branches := make([]branch, 0, breadth)
	for i, res := range results {
		msg, ok := res.Message()
		if !ok {
			c.Metrics.PredictionRejected(depthLabel)
			logger.DebugCF("walk", "Sibling rejected", map[string]any{
				"path":   paths[i].Label(),
				"reason": res.Reason(),
			})
			continue
		}
		c.Metrics.PredictionAccepted(depthLabel)
		branches = append(branches, branch{message: msg, path: paths[i]})
	}
	return branches
}

// expand recurses into child and forwards its events verbatim. A child that
// cannot be opened is an empty branch.
func (c *Controller) expand(ctx context.Context, child *ExpansionRequest, hdr http.Header, emit Emitter) error {
	if c.Transport == nil {
		c.Metrics.ChildStream(metrics.ChildEmpty)
		return nil
	}
	dec, err := OpenStream(ctx, c.Transport, child, hdr)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Metrics.ChildStream(metrics.ChildFailed)
		logger.DebugCF("walk", "Child stream unavailable", map[string]any{
			"path":  child.BranchPath.Label(),
			"error": err.Error(),
		})
		return nil
	}
	if dec == nil {
		c.Metrics.ChildStream(metrics.ChildEmpty)
		return nil
	}

	for ev := range dec.Events() {
		if err := emit(ev); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := dec.Err(); err != nil {
		c.Metrics.ChildStream(metrics.ChildFailed)
		logger.DebugCF("walk", "Child stream ended early", map[string]any{
			"path":  child.BranchPath.Label(),
			"error": err.Error(),
		})
		return nil
	}
	c.Metrics.ChildStream(metrics.ChildOK)
	return nil
}

func (c *Controller) counting(emit Emitter) Emitter {
	if c.Metrics == nil {
		return emit
	}
	return func(ev sse.Event) error {
		if err := emit(ev); err != nil {
			return err
		}
		c.Metrics.EventEmitted(ev.Name)
		return nil
	}
}
