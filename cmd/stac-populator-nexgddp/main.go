// Command stac-populator-nexgddp runs the NEX_GDDP_UofT populator on its own.
package main

import (
	"fmt"
	"os"

	"github.com/poiesic/stacpopulator/implementations/nexgddpuoft"
	"github.com/poiesic/stacpopulator/router"
)

func main() {
	if err := nexgddpuoft.NewModule().Main(os.Args[1:]...); err != nil {
		fmt.Fprintln(os.Stderr, "stac-populator-nexgddp: error:", err)
		os.Exit(router.ExitCode(err))
	}
}
