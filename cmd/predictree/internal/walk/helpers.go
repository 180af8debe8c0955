package walk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/tinyland-inc/predictree/cmd/predictree/internal"
	"github.com/tinyland-inc/predictree/pkg/logger"
	"github.com/tinyland-inc/predictree/pkg/predict"
	"github.com/tinyland-inc/predictree/pkg/sse"
	"github.com/tinyland-inc/predictree/pkg/transport"
	"github.com/tinyland-inc/predictree/pkg/tree"
)

type options struct {
	breadth       int
	depth         int
	template      string
	interactive   bool
	url           string
	raw           bool
	debug         bool
	listTemplates bool
}

func walkCmd(ctx context.Context, out io.Writer, opts options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.listTemplates {
		for _, tpl := range predict.Templates() {
			fmt.Fprintf(out, "%s (%d messages)\n", tpl.Name, len(tpl.History))
		}
		return nil
	}

	var history tree.History
	if opts.interactive {
		fmt.Fprintf(out, "%s Type the seed conversation as \"left: ...\" or \"right: ...\"; an empty line starts the walk\n\n", internal.Logo)
		h, err := readSeed()
		if err != nil {
			return err
		}
		history = h
	} else {
		tpl, ok := predict.FindTemplate(opts.template)
		if !ok {
			return fmt.Errorf("unknown template %q (see --list-templates)", opts.template)
		}
		history = tpl.History
	}

	req := &tree.ExpansionRequest{
		History:        history,
		MessageBreadth: opts.breadth,
		MaxDepth:       opts.depth,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	r := &renderer{w: out, raw: opts.raw}
	if opts.url != "" {
		return streamRemote(ctx, opts.url, req, r)
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if opts.debug {
		logger.SetLevel(logger.DEBUG)
	}

	controller, err := internal.NewController(ctx, cfg, nil)
	if err != nil {
		return err
	}
	return controller.Walk(ctx, req, http.Header{}, r.render)
}

// streamRemote posts req to a running server and relays its stream.
func streamRemote(ctx context.Context, url string, req *tree.ExpansionRequest, r *renderer) error {
	t := transport.NewHTTP(url, 0)
	dec, err := tree.OpenStream(ctx, t, req, http.Header{"User-Agent": {"predictree/" + internal.GetVersion()}})
	if err != nil {
		return err
	}
	if dec == nil {
		return nil
	}

	for ev := range dec.Events() {
		if err := r.render(ev); err != nil {
			return err
		}
	}
	return dec.Err()
}

// renderer prints events as an indented tree, or verbatim with raw.
type renderer struct {
	w   io.Writer
	raw bool
}

func (r *renderer) render(ev sse.Event) error {
	if r.raw {
		return sse.Encode(r.w, ev)
	}

	var err error
	switch ev.Name {
	case tree.EventHistory:
		var p tree.HistoryPayload
		if err = ev.Decode(&p); err != nil {
			break
		}
		for _, m := range p.History {
			_, err = fmt.Fprintf(r.w, "%s: %s\n", m.Side, m.Content)
		}
		fmt.Fprintln(r.w)
	case tree.EventPrediction:
		var p tree.PredictionPayload
		if err = ev.Decode(&p); err != nil {
			break
		}
		indent := strings.Repeat("  ", max(p.Depth-1, 0))
		_, err = fmt.Fprintf(r.w, "%s%s %s: %s\n", indent, p.BranchPath.Label(), p.Message.Side, p.Message.Content)
	case tree.EventBranchComplete:
	case tree.EventComplete:
		var p tree.CompletePayload
		if err = ev.Decode(&p); err != nil {
			break
		}
		_, err = fmt.Fprintf(r.w, "\n✓ %d top-level branches\n", p.BranchCount)
	case tree.EventError:
		var p tree.ErrorPayload
		if err = ev.Decode(&p); err != nil {
			break
		}
		_, err = fmt.Fprintf(r.w, "error: %s\n", p.Message)
	default:
		text, terr := ev.Text()
		if terr != nil {
			return terr
		}
		_, err = fmt.Fprintf(r.w, "[%s] %s\n", ev.Name, text)
	}
	return err
}

func readSeed() (tree.History, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          fmt.Sprintf("%s seed> ", internal.Logo),
		HistoryFile:     filepath.Join(os.TempDir(), ".predictree_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("Error initializing readline: %v\n", err)
		fmt.Println("Falling back to simple input mode...")
		return collectSeed(bufio.NewReader(os.Stdin).ReadString)
	}
	defer rl.Close()

	return collectSeed(func(byte) (string, error) {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return line, err
	})
}

// collectSeed reads lines until an empty one or EOF. Lines that do not parse
// as "side: content" are reported and skipped.
func collectSeed(next func(delim byte) (string, error)) (tree.History, error) {
	var h tree.History
	for {
		line, err := next('\n')
		input := strings.TrimSpace(line)
		if input != "" {
			reply, perr := predict.ParseReply(input)
			if perr != nil {
				fmt.Printf("skipped: %v\n", perr)
			} else {
				m := tree.Message{ID: uuid.NewString(), Side: reply.Side, Content: reply.Content}
				if last, ok := h.Last(); ok {
					m.ParentID = last.ID
				}
				h = h.Append(m)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if input == "" {
			break
		}
	}
	if len(h) == 0 {
		return nil, errors.New("seed conversation is empty")
	}
	return h, nil
}
