package tree

import "github.com/tinyland-inc/predictree/pkg/sse"

// Event names emitted by a walk.
const (
	EventHistory        = "history"
	EventPrediction     = "prediction"
	EventBranchComplete = "branchComplete"
	EventComplete       = "complete"
	EventError          = "error"
)

type HistoryPayload struct {
	History History `json:"history"`
}

type PredictionPayload struct {
	Message    Message    `json:"message"`
	Depth      int        `json:"depth"`
	BranchPath BranchPath `json:"branchPath"`
}

type BranchCompletePayload struct {
	Depth      int        `json:"depth"`
	BranchPath BranchPath `json:"branchPath"`
}

type CompletePayload struct {
	Depth       int `json:"depth"`
	BranchCount int `json:"branchCount"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func HistoryEvent(h History) sse.Event {
	if h == nil {
		h = History{}
	}
	return sse.NewEvent(EventHistory, HistoryPayload{History: h})
}

func PredictionEvent(m Message, depth int, path BranchPath) sse.Event {
	return sse.NewEvent(EventPrediction, PredictionPayload{Message: m, Depth: depth, BranchPath: path})
}

func BranchCompleteEvent(depth int, path BranchPath) sse.Event {
	return sse.NewEvent(EventBranchComplete, BranchCompletePayload{Depth: depth, BranchPath: path})
}

func CompleteEvent(depth, branchCount int) sse.Event {
	return sse.NewEvent(EventComplete, CompletePayload{Depth: depth, BranchCount: branchCount})
}

func ErrorEvent(message string) sse.Event {
	return sse.NewEvent(EventError, ErrorPayload{Message: message})
}
