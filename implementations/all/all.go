// Package all registers every populator in implementations.Namespace.
package all

import (
	_ "github.com/poiesic/stacpopulator/implementations/cmip6uoft"
	_ "github.com/poiesic/stacpopulator/implementations/nexgddpuoft"
)
