package lattice

import _ "embed"

// Version is the release of this module, trailing newline included.
//
//go:embed VERSION
var Version string
