package implementations

import "github.com/poiesic/stacpopulator/plugin"

// Namespace holds the populator modules built into the binaries.
var Namespace = plugin.NewNamespace("implementations")
