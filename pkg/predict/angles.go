package predict

import "github.com/tinyland-inc/predictree/pkg/tree"

// DefaultAngles steer sibling continuations apart from each other.
var DefaultAngles = Angles{
	"highlights a concrete next step",
	"amplifies the emotional payoff",
	"frames the idea as a bold statement",
	"turns the concept into a question to provoke thought",
	"adds a vivid sensory detail to make it memorable",
}

// Angles is an ordered list of prompt angles.
type Angles []string

// For picks the angle of the sibling at path by its own index, so siblings
// of one node differ while cousins at the same index share an angle.
func (a Angles) For(path tree.BranchPath) string {
	if len(a) == 0 {
		a = DefaultAngles
	}
	if len(path) == 0 {
		return a[0]
	}
	return a[path[len(path)-1]%len(a)]
}
