package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tinyland-inc/predictree/pkg/logger"
	"github.com/tinyland-inc/predictree/pkg/sse"
	"github.com/tinyland-inc/predictree/pkg/tree"
)

const defaultMaxBodyBytes = 1 << 20

// RequestError is an ingress failure reported to the caller as a single
// error event.
type RequestError struct {
	Msg string
	Err error
}

func (e *RequestError) Error() string { return e.Msg }

func (e *RequestError) Unwrap() error { return e.Err }

// Handler serves one tree expansion per POST as an event stream.
type Handler struct {
	Walker       tree.Walker
	MaxBodyBytes int64
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	setStreamHeaders(w.Header())
	sw := sse.NewWriter(w)

	req, err := h.decode(w, r)
	if err != nil {
		logger.DebugCF("server", "Rejected request", map[string]any{
			"method":  r.Method,
			"error":   err.Error(),
			"headers": logger.SafeHeaders(r.Header),
		})
		w.WriteHeader(http.StatusOK)
		_ = sw.Send(tree.ErrorEvent(err.Error()))
		return
	}

	logger.DebugCF("server", "Expansion started", map[string]any{
		"depth":   req.Depth,
		"path":    req.BranchPath.Label(),
		"breadth": req.MessageBreadth,
		"max":     req.MaxDepth,
		"headers": logger.SafeHeaders(r.Header),
	})

	w.WriteHeader(http.StatusOK)
	err = h.Walker.Walk(r.Context(), req, r.Header, sw.Send)

	fields := map[string]any{
		"depth":    req.Depth,
		"path":     req.BranchPath.Label(),
		"events":   sw.Count(),
		"duration": time.Since(start).String(),
	}
	switch {
	case err == nil:
		logger.DebugCF("server", "Expansion finished", fields)
	case r.Context().Err() != nil:
		logger.DebugCF("server", "Caller went away", fields)
	default:
		fields["error"] = err.Error()
		logger.WarnCF("server", "Expansion aborted", fields)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*tree.ExpansionRequest, error) {
	if r.Method != http.MethodPost {
		return nil, &RequestError{Msg: fmt.Sprintf("method %s not allowed, use POST", r.Method)}
	}

	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	body := http.MaxBytesReader(w, r.Body, limit)
	defer body.Close()

	var req tree.ExpansionRequest
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &RequestError{Msg: fmt.Sprintf("request body exceeds %d bytes", limit)}
		}
		if errors.Is(err, io.EOF) {
			return nil, &RequestError{Msg: "empty request body"}
		}
		return nil, &RequestError{Msg: "invalid request body: " + err.Error(), Err: err}
	}
	if err := req.Validate(); err != nil {
		return nil, &RequestError{Msg: err.Error(), Err: err}
	}
	if req.History == nil {
		req.History = tree.History{}
	}
	return &req, nil
}

func setStreamHeaders(h http.Header) {
	h.Set("Content-Type", sse.ContentType)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}
