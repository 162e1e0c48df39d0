package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"gopkg.in/yaml.v3"
)

// RouteConfig describes one route served by an external command.
type RouteConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Strategy    string            `yaml:"strategy" json:"strategy"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
}

// ConfigFile represents the structure of resolvers.yaml
type ConfigFile struct {
	Resolvers []RouteConfig `yaml:"resolvers" json:"resolvers"`
}

// LoadRoutes reads a configuration file (YAML or JSON) and returns the routes by name.
// A missing file yields an empty set.
func LoadRoutes(path string) (map[string]RouteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]RouteConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read resolvers config: %w", err)
	}
	return ParseRoutes(data, strings.ToLower(filepath.Ext(path)) == ".json")
}

// ParseRoutes decodes a resolvers document.
func ParseRoutes(data []byte, asJSON bool) (map[string]RouteConfig, error) {
	var cfg ConfigFile
	if asJSON {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse resolvers.json: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse resolvers.yaml: %w", err)
	}

	routes := make(map[string]RouteConfig, len(cfg.Resolvers))
	for _, rc := range cfg.Resolvers {
		if rc.Name == "" {
			continue
		}
		if rc.Command == "" {
			return nil, fmt.Errorf("resolver %q: command is required", rc.Name)
		}
		if _, err := domain.ParseFetchStrategy(rc.Strategy); err != nil {
			return nil, fmt.Errorf("resolver %q: %w", rc.Name, err)
		}
		routes[rc.Name] = rc
	}
	return routes, nil
}
