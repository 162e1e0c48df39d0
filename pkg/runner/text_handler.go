package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/session"
)

// TextHandler implements the line-oriented text interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Prompt   string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer renders results as a markdown table through renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithPrompt replaces the default "> " prompt. An empty prompt disables it.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: "> ",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// The pump lets Input honour ctx while a read is blocked.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.inputChan <- inputResult{err: err}
			}
			return
		}
	}
}

// Output prints the nodes of res: all of them when full is set, the visited ones otherwise.
func (h *TextHandler) Output(ctx context.Context, res *session.Result, full bool) error {
	order := res.Visited
	if full {
		order = make([]domain.NodeID, len(res.Nodes))
		for i, s := range res.Nodes {
			order[i] = s.ID
		}
	}
	if len(order) == 0 {
		_, err := fmt.Fprintln(h.Writer, "(nothing recomputed)")
		return err
	}

	snaps := make(map[domain.NodeID]domain.Snapshot, len(res.Nodes))
	for _, s := range res.Nodes {
		snaps[s.ID] = s
	}

	if h.Renderer != nil {
		table := tui.SnapshotTable(order, snaps, domain.NewIDSet(res.Visited...))
		if rendered, err := h.Renderer(table); err == nil {
			_, err = fmt.Fprintln(h.Writer, strings.TrimRight(rendered, "\n"))
			return err
		}
	}

	for _, id := range order {
		data, err := json.Marshal(snaps[id].Value)
		if err != nil {
			data = []byte(fmt.Sprint(snaps[id].Value))
		}
		if _, err := fmt.Fprintf(h.Writer, "%s = %s\n", id, data); err != nil {
			return err
		}
	}
	return nil
}

// Input reads lines until one parses as a command. Invalid lines are reported and skipped.
func (h *TextHandler) Input(ctx context.Context) (Command, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		default:
			fmt.Fprint(h.Writer, h.Prompt)
		}

		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return Command{}, io.EOF
			}
			if res.err != nil {
				return Command{}, res.err
			}

			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			cmd, err := ParseLine(clean)
			if errors.Is(err, ErrEmptyCommand) {
				continue
			}
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v\n", err)
				continue
			}
			return cmd, nil
		}
	}
}

// SystemOutput prints msg with a [System] prefix.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}
