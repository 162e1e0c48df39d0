package cli

import (
	"fmt"

	"github.com/aretw0/lattice/internal/validator"
	"github.com/aretw0/lattice/pkg/adapters/manifest"
	"github.com/aretw0/lattice/pkg/adapters/process"
)

// Validate loads the manifest, builds its graph and checks it against the resolver
// config, without touching any store. Without a resolver config, routes are not checked.
func Validate(opts Options) (*manifest.Definition, *validator.Report, error) {
	def, err := manifest.Load(opts.manifestPath())
	if err != nil {
		return nil, nil, err
	}
	g, err := def.Build()
	if err != nil {
		return nil, nil, err
	}

	var routes validator.RouteTable
	if path := opts.resolversPath(); path != "" {
		configs, err := process.LoadRoutes(path)
		if err != nil {
			return nil, nil, fmt.Errorf("error loading resolvers: %w", err)
		}
		routes = process.NewRunner(process.WithRoutes(configs)).Strategies()
	}
	return def, validator.ValidateGraph(g, routes), nil
}
