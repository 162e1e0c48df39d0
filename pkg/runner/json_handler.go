package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/lattice/pkg/session"
)

// JSONHandler implements the IOHandler interface for JSON-Lines communication.
// Every output is one JSON object per line: results carry a "result" field and
// system messages a "system" field.
type JSONHandler struct {
	Encoder *json.Encoder
	Decoder *json.Decoder
}

type jsonOutput struct {
	Result *session.Result `json:"result,omitempty"`
	Full   bool            `json:"full,omitempty"`
	System string          `json:"system,omitempty"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Encoder: json.NewEncoder(w),
		Decoder: json.NewDecoder(r),
	}
}

// Output writes res as a single JSON line.
func (h *JSONHandler) Output(ctx context.Context, res *session.Result, full bool) error {
	return h.Encoder.Encode(jsonOutput{Result: res, Full: full})
}

// Input decodes the next command object. A malformed document ends the stream with an
// error, since the decoder cannot resynchronize.
func (h *JSONHandler) Input(ctx context.Context) (Command, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Command{}, err
		}
		var cmd Command
		if err := h.Decoder.Decode(&cmd); err != nil {
			if errors.Is(err, io.EOF) {
				return Command{}, io.EOF
			}
			return Command{}, fmt.Errorf("failed to decode command: %w", err)
		}
		if cmd.Empty() {
			continue
		}
		return cmd, nil
	}
}

// SystemOutput writes msg as a {"system": msg} line.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(jsonOutput{System: msg})
}
