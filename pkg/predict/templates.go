package predict

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tinyland-inc/predictree/pkg/tree"
)

// Template is a named seed conversation.
type Template struct {
	Name    string
	History tree.History
}

type turn struct {
	side    tree.Side
	content string
}

var seeds = []struct {
	name  string
	turns []turn
}{
	{
		name: "Quick Chat",
		turns: []turn{
			{tree.SideLeft, "Hey, got a minute?"},
			{tree.SideRight, "Sure, what's up?"},
		},
	},
	{
		name: "Hamster Moment",
		turns: []turn{
			{tree.SideRight, "what"},
			{tree.SideLeft, "idk i just got the worst news ever"},
			{tree.SideLeft, "I accidentally microwaved my hamster"},
		},
	},
	{
		name: "Airport",
		turns: []turn{
			{tree.SideRight, "my flight just got cancelled"},
			{tree.SideLeft, "what"},
			{tree.SideLeft, "where are you now"},
			{tree.SideRight, "still at the airport, gate 42"},
		},
	},
}

// Templates returns the seed conversations with freshly minted, linked ids.
func Templates() []Template {
	out := make([]Template, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, build(s.name, s.turns))
	}
	return out
}

// FindTemplate looks a template up by name, ignoring case, spaces and dashes.
func FindTemplate(name string) (Template, bool) {
	key := templateKey(name)
	for _, s := range seeds {
		if templateKey(s.name) == key {
			return build(s.name, s.turns), true
		}
	}
	return Template{}, false
}

func templateKey(name string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(name))
}

func build(name string, turns []turn) Template {
	h := make(tree.History, 0, len(turns))
	for _, t := range turns {
		m := tree.Message{ID: uuid.NewString(), Side: t.side, Content: t.content}
		if last, ok := h.Last(); ok {
			m.ParentID = last.ID
		}
		h = append(h, m)
	}
	return Template{Name: name, History: h}
}
