package tree

import (
	"context"
	"fmt"
)

// Result is what a Generator produced for one sibling: an accepted message or
// a rejection with a reason. Exactly one of the two is set.
type Result struct {
	msg    Message
	ok     bool
	reason string
}

func Accepted(m Message) Result {
	return Result{msg: m, ok: true}
}

func Rejected(reason string) Result {
	return Result{reason: reason}
}

// Rejectedf formats the rejection reason.
func Rejectedf(format string, args ...any) Result {
	return Rejected(fmt.Sprintf(format, args...))
}

// Message returns the accepted message and true, or false for a rejection.
func (r Result) Message() (Message, bool) {
	return r.msg, r.ok
}

// Reason returns why the sibling was rejected; empty when accepted.
func (r Result) Reason() string {
	return r.reason
}

// Generator produces the message for the sibling at path, continuing history.
// Calls for distinct paths may run concurrently.
type Generator interface {
	Generate(ctx context.Context, history History, path BranchPath) Result
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, history History, path BranchPath) Result

func (f GeneratorFunc) Generate(ctx context.Context, history History, path BranchPath) Result {
	return f(ctx, history, path)
}
