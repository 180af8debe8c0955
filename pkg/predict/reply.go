package predict

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/tinyland-inc/predictree/pkg/tree"
)

var (
	ErrNoSide       = errors.New("reply does not say which side is speaking")
	ErrEmptyContent = errors.New("reply has no content")
)

// Reply is a parsed model completion.
type Reply struct {
	Side    tree.Side
	Content string
}

// ParseReply accepts "left: ..." / "right: ..." text, or a JSON object with
// side and content fields. Malformed JSON is repaired before giving up.
func ParseReply(text string) (Reply, error) {
	s := strings.TrimSpace(text)

	for _, side := range []tree.Side{tree.SideLeft, tree.SideRight} {
		if rest, ok := strings.CutPrefix(s, string(side)+":"); ok {
			return newReply(side, rest)
		}
	}

	if body, ok := jsonBody(s); ok {
		var raw struct {
			Side    string `json:"side"`
			Content string `json:"content"`
		}
		if err := unmarshalJSON([]byte(body), &raw); err != nil {
			return Reply{}, err
		}
		side := tree.Side(strings.ToLower(strings.TrimSpace(raw.Side)))
		if !side.Valid() {
			return Reply{}, ErrNoSide
		}
		return newReply(side, raw.Content)
	}

	return Reply{}, ErrNoSide
}

func newReply(side tree.Side, content string) (Reply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Reply{}, ErrEmptyContent
	}
	return Reply{Side: side, Content: content}, nil
}

// jsonBody strips a markdown code fence and reports whether what is left
// looks like an object.
func jsonBody(s string) (string, bool) {
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		rest = strings.TrimPrefix(rest, "json")
		rest = strings.TrimSuffix(strings.TrimSpace(rest), "```")
		s = strings.TrimSpace(rest)
	}
	return s, strings.HasPrefix(s, "{")
}

func unmarshalJSON(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		fixed, rerr := jsonrepair.JSONRepair(string(data))
		if rerr != nil {
			return rerr
		}
		return json.Unmarshal([]byte(fixed), v)
	}
	return err
}
