// Package tree implements the recursive prediction tree walk: each node asks a
// Generator for sibling continuations, streams them to its caller, and expands
// every sibling below the depth limit by re-entering itself through a Transport.
package tree

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidRequest wraps every request validation failure.
var ErrInvalidRequest = errors.New("invalid expansion request")

// Side is which participant a message belongs to.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// Message is one conversation turn. It is never modified after creation.
type Message struct {
	ID       string `json:"id"`
	Side     Side   `json:"side"`
	Content  string `json:"content"`
	ParentID string `json:"parentId,omitempty"`
}

// History is a conversation in order.
type History []Message

// Last returns the final message, if any.
func (h History) Last() (Message, bool) {
	if len(h) == 0 {
		return Message{}, false
	}
	return h[len(h)-1], true
}

// Append returns a new history with m at the end. The receiver's backing
// array is never shared with the result.
func (h History) Append(m Message) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, m)
}

// Validate checks sides and that each parentId links to the previous message.
func (h History) Validate() error {
	for i, m := range h {
		if !m.Side.Valid() {
			return fmt.Errorf("%w: history[%d]: unknown side %q", ErrInvalidRequest, i, m.Side)
		}
		if i > 0 && m.ParentID != "" && m.ParentID != h[i-1].ID {
			return fmt.Errorf("%w: history[%d]: parentId %q does not match previous id %q",
				ErrInvalidRequest, i, m.ParentID, h[i-1].ID)
		}
	}
	return nil
}

// BranchPath holds the sibling index chosen at each depth, root first.
type BranchPath []int

// Child returns a fresh path with index appended.
func (p BranchPath) Child(index int) BranchPath {
	out := make(BranchPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, index)
}

// Parent returns the path without its last element.
func (p BranchPath) Parent() BranchPath {
	if len(p) == 0 {
		return BranchPath{}
	}
	return slices.Clone(p[:len(p)-1])
}

// Label renders the path as 1-based dotted option numbers, e.g. "1.2".
func (p BranchPath) Label() string {
	parts := make([]string, len(p))
	for i, step := range p {
		parts[i] = strconv.Itoa(step + 1)
	}
	return strings.Join(parts, ".")
}

// ExpansionRequest asks a node to expand the tree below History.
type ExpansionRequest struct {
	History        History    `json:"history"`
	MessageBreadth int        `json:"messageBreadth"`
	MaxDepth       int        `json:"maxDepth"`
	Depth          int        `json:"depth,omitempty"`
	BranchPath     BranchPath `json:"branchPath,omitempty"`
}

// Validate checks the request shape.
func (r *ExpansionRequest) Validate() error {
	switch {
	case r.MessageBreadth < 0:
		return fmt.Errorf("%w: messageBreadth must be >= 0", ErrInvalidRequest)
	case r.MaxDepth < 0:
		return fmt.Errorf("%w: maxDepth must be >= 0", ErrInvalidRequest)
	case r.Depth < 0:
		return fmt.Errorf("%w: depth must be >= 0", ErrInvalidRequest)
	case r.Depth != len(r.BranchPath):
		return fmt.Errorf("%w: depth %d does not match branchPath length %d",
			ErrInvalidRequest, r.Depth, len(r.BranchPath))
	}
	for i, step := range r.BranchPath {
		if step < 0 {
			return fmt.Errorf("%w: branchPath[%d] is negative", ErrInvalidRequest, i)
		}
	}
	return r.History.Validate()
}

// Child builds the request for expanding msg, found at path, one level down.
func (r *ExpansionRequest) Child(msg Message, path BranchPath) *ExpansionRequest {
	return &ExpansionRequest{
		History:        r.History.Append(msg),
		MessageBreadth: r.MessageBreadth,
		MaxDepth:       r.MaxDepth,
		Depth:          r.Depth + 1,
		BranchPath:     slices.Clone(path),
	}
}
