package predict

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/tinyland-inc/predictree/pkg/logger"
	"github.com/tinyland-inc/predictree/pkg/providers"
	"github.com/tinyland-inc/predictree/pkg/tree"
)

// Generator produces sibling continuations with a chat model.
type Generator struct {
	Provider providers.LLMProvider
	// Model overrides the provider default when set.
	Model   string
	Angles  Angles
	Options providers.Options
	// Limiter, when set, paces model calls across the whole walk.
	Limiter *rate.Limiter
	// NewID generates message ids; random UUIDs when nil.
	NewID func() string
}

var _ tree.Generator = (*Generator)(nil)

// NewLimiter allows rpm calls per minute with the given burst. A
// non-positive rpm disables limiting.
func NewLimiter(rpm, burst int) *rate.Limiter {
	if rpm <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), burst)
}

func (g *Generator) Generate(ctx context.Context, history tree.History, path tree.BranchPath) tree.Result {
	label := path.Label()

	if g.Limiter != nil {
		if err := g.Limiter.Wait(ctx); err != nil {
			return tree.Rejectedf("rate limit wait: %v", err)
		}
	}

	angle := g.Angles.For(path)
	model := g.Model
	if model == "" {
		model = g.Provider.GetDefaultModel()
	}

	resp, err := g.Provider.Chat(ctx, BuildMessages(history, angle), model, g.Options)
	if err != nil {
		logger.WarnCF("predict", "Model call failed", map[string]any{
			"path":  label,
			"model": model,
			"error": err.Error(),
		})
		return tree.Rejectedf("model call: %v", err)
	}

	reply, err := ParseReply(resp.Content)
	if err != nil {
		logger.WarnCF("predict", "Unusable model reply", map[string]any{
			"path":  label,
			"reply": truncate(resp.Content, 120),
			"error": err.Error(),
		})
		return tree.Rejected(err.Error())
	}

	msg := tree.Message{
		ID:      g.newID(),
		Side:    reply.Side,
		Content: reply.Content,
	}
	if parent, ok := history.Last(); ok {
		msg.ParentID = parent.ID
	}

	fields := map[string]any{
		"path":  label,
		"angle": angle,
		"side":  string(msg.Side),
	}
	if resp.Usage != nil {
		fields["tokens"] = resp.Usage.TotalTokens
	}
	logger.DebugCF("predict", "Prediction generated", fields)

	return tree.Accepted(msg)
}

func (g *Generator) newID() string {
	if g.NewID != nil {
		return g.NewID()
	}
	return uuid.NewString()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
