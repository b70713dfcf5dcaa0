// Command stac-populator-cmip6 runs the CMIP6_UofT populator on its own.
package main

import (
	"fmt"
	"os"

	"github.com/poiesic/stacpopulator/implementations/cmip6uoft"
	"github.com/poiesic/stacpopulator/router"
)

func main() {
	if err := cmip6uoft.NewModule().Main(os.Args[1:]...); err != nil {
		fmt.Fprintln(os.Stderr, "stac-populator-cmip6: error:", err)
		os.Exit(router.ExitCode(err))
	}
}
