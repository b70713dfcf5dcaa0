// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/stacpopulator"
	"github.com/poiesic/stacpopulator/implementations"
	_ "github.com/poiesic/stacpopulator/implementations/all"
	"github.com/poiesic/stacpopulator/plugin"
	"github.com/poiesic/stacpopulator/router"
	"github.com/urfave/cli/v2"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	registry, err := plugin.NewRegistry()
	if err != nil {
		fmt.Fprintln(stderr, "stac-populator:", err)
		return router.ExitError
	}
	if _, err := registry.Discover(implementations.Namespace); err != nil {
		fmt.Fprintln(stderr, "stac-populator:", err)
		return router.ExitError
	}

	r, err := router.New("stac-populator", registry,
		router.WithUsage("STAC populator for climate datasets served by THREDDS"),
		router.WithVersion(stacpopulator.Version),
		router.WithOutput(stdout, stderr),
		router.WithGlobalFlags(setupLogger, &cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "Set logging level (debug, info, warn, error)",
			Value:   "info",
		}),
	)
	if err != nil {
		fmt.Fprintln(stderr, "stac-populator:", err)
		return router.ExitError
	}
	return r.Dispatch(args)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
