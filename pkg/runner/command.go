package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
)

// ErrEmptyCommand is returned by ParseLine for blank lines.
var ErrEmptyCommand = errors.New("empty command")

// Command is one interaction requested by the user.
type Command struct {
	Values  map[domain.NodeID]domain.Value `json:"values,omitempty"`
	Changed []domain.NodeID                `json:"changed,omitempty"`
	Show    bool                           `json:"show,omitempty"`
	Quit    bool                           `json:"quit,omitempty"`
}

// Empty reports whether the command asks for nothing.
func (c Command) Empty() bool {
	return len(c.Values) == 0 && len(c.Changed) == 0 && !c.Show && !c.Quit
}

// ParseLine parses a single text command: id=<json>, !id, :show or :quit.
func ParseLine(line string) (Command, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return Command{}, ErrEmptyCommand
	case line == ":show":
		return Command{Show: true}, nil
	case line == ":quit" || line == ":q":
		return Command{Quit: true}, nil
	case strings.HasPrefix(line, "!"):
		id := strings.TrimSpace(line[1:])
		if id == "" {
			return Command{}, fmt.Errorf("missing node id after '!'")
		}
		return Command{Changed: []domain.NodeID{domain.NodeID(id)}}, nil
	}

	id, raw, ok := strings.Cut(line, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return Command{}, fmt.Errorf("unrecognized command %q (expected id=<value>, !id, :show or :quit)", line)
	}
	return Command{Values: map[domain.NodeID]domain.Value{domain.NodeID(id): parseValue(raw)}}, nil
}

func parseValue(raw string) domain.Value {
	raw = strings.TrimSpace(raw)
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
