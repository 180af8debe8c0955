package tree

// Default absolute ceilings on a walk.
const (
	DefaultMaxBreadth = 2
	DefaultMaxDepth   = 3
)

// Limits are the absolute ceilings applied to every request before use.
// A zero field means the default ceiling.
type Limits struct {
	MaxBreadth int `json:"max_breadth"`
	MaxDepth   int `json:"max_depth"`
}

// DefaultLimits returns the ceilings used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxBreadth: DefaultMaxBreadth, MaxDepth: DefaultMaxDepth}
}

// Clamp bounds the requested breadth and depth by the ceilings. Negative
// requests clamp to zero.
func (l Limits) Clamp(breadth, maxDepth int) (int, int) {
	capBreadth := l.MaxBreadth
	if capBreadth <= 0 {
		capBreadth = DefaultMaxBreadth
	}
	capDepth := l.MaxDepth
	if capDepth <= 0 {
		capDepth = DefaultMaxDepth
	}
	return max(0, min(breadth, capBreadth)), max(0, min(maxDepth, capDepth))
}
