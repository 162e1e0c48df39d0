package compiler

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/lattice/internal/dto"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a manifest document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension. Anything that is not
// .json is treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Parser is responsible for converting raw bytes into a Manifest.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes data and checks the structural rules that do not need a graph:
// every node has an id and a kind, and ids are unique.
func (p *Parser) Parse(data []byte, format Format) (*dto.Manifest, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse manifest: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse manifest: %w", err)
		}
	}

	var m dto.Manifest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  bareDependencyHook,
		ErrorUnused: true,
		Result:      &m,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	seen := make(map[string]bool, len(m.Nodes))
	for i, n := range m.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node #%d missing id", i+1)
		}
		if n.Kind == "" {
			return nil, fmt.Errorf("node %q missing kind", n.ID)
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("node %q declared twice", n.ID)
		}
		seen[n.ID] = true
	}
	return &m, nil
}

// bareDependencyHook lets "dependencies: [a, {id: b, reset_only: true}]" mix plain ids
// with full entries.
func bareDependencyHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(dto.DependencySpec{}) || from.Kind() != reflect.String {
		return data, nil
	}
	return map[string]any{"id": data}, nil
}
