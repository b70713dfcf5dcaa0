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

package router

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/poiesic/stacpopulator/plugin"
	"github.com/urfave/cli/v2"
)

// Exit codes returned by Dispatch.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// Router dispatches command lines to registered plugins.
type Router struct {
	name      string
	usage     string
	version   string
	registry  *plugin.Registry
	flags     []cli.Flag
	before    cli.BeforeFunc
	writer    io.Writer
	errWriter io.Writer
	logger    *slog.Logger
}

// Option configures a Router.
type Option func(*Router) error

// WithVersion sets the version printed by --version.
func WithVersion(version string) Option {
	return func(r *Router) error {
		r.version = version
		return nil
	}
}

// WithUsage sets the one-line description of the application.
func WithUsage(usage string) Option {
	return func(r *Router) error {
		r.usage = usage
		return nil
	}
}

// WithGlobalFlags adds top-level flags and a hook that runs before any command.
func WithGlobalFlags(before cli.BeforeFunc, flags ...cli.Flag) Option {
	return func(r *Router) error {
		r.flags = append(r.flags, flags...)
		r.before = before
		return nil
	}
}

// WithOutput sets where usage and errors are written.
func WithOutput(w, errW io.Writer) Option {
	return func(r *Router) error {
		if w != nil {
			r.writer = w
		}
		if errW != nil {
			r.errWriter = errW
		}
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// New creates a router over an already discovered registry.
func New(name string, registry *plugin.Registry, opts ...Option) (*Router, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	r := &Router{
		name:      name,
		version:   "dev",
		registry:  registry,
		writer:    os.Stdout,
		errWriter: os.Stderr,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// BuildCommands composes the command surface: a single "run" command with one
// sub-command per registered plugin.
func (r *Router) BuildCommands() *cli.App {
	return &cli.App{
		Name:            r.name,
		Usage:           r.usage,
		Version:         r.version,
		Writer:          r.writer,
		ErrWriter:       r.errWriter,
		Flags:           r.flags,
		Before:          r.before,
		HideHelpCommand: true,
		ExitErrHandler:  func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return fmt.Errorf("%w %q", ErrUnknownCommand, c.Args().First())
			}
			return cli.ShowAppHelp(c)
		},
		Commands: []*cli.Command{r.runCommand()},
	}
}

func (r *Router) runCommand() *cli.Command {
	names := r.registry.Names()
	subcommands := make([]*cli.Command, 0, len(names))
	for _, name := range names {
		desc, ok := r.registry.Lookup(name)
		if !ok {
			continue
		}
		subcommands = append(subcommands, r.pluginCommand(desc))
	}

	return &cli.Command{
		Name:            "run",
		Usage:           "Run a registered populator",
		ArgsUsage:       "<plugin> [plugin args...]",
		HideHelpCommand: true,
		Subcommands:     subcommands,
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.ShowSubcommandHelp(c)
			}
			return &UnknownPluginError{Name: c.Args().First(), Available: names}
		},
	}
}

func (r *Router) pluginCommand(desc *plugin.Descriptor) *cli.Command {
	parser := desc.NewParser()
	cmd := &cli.Command{
		Name:        desc.Name,
		Usage:       parser.Usage,
		Description: parser.Description,
		ArgsUsage:   parser.ArgsUsage,
		Flags:       parser.Flags,
		HideHelp:    parser.HidesHelp(),
	}

	if desc.Runner != nil {
		run := desc.Runner
		cmd.Action = func(c *cli.Context) error {
			r.logger.Debug("dispatching plugin", "plugin", desc.Name, "protocol", "runner")
			return run(c)
		}
		return cmd
	}

	// Entry-point plugins parse their own arguments.
	cmd.SkipFlagParsing = true
	cmd.HideHelp = true
	cmd.Action = func(c *cli.Context) error {
		r.logger.Debug("dispatching plugin", "plugin", desc.Name, "protocol", "main")
		return desc.MainWithOutput(plugin.Output{Writer: r.writer, ErrWriter: r.errWriter}, c.Args().Slice()...)
	}
	return cmd
}

// Dispatch runs one command line (without the program name) and returns the exit code.
// Errors are written to the error writer; Dispatch never exits the process.
func (r *Router) Dispatch(args []string) int {
	app := r.BuildCommands()
	err := app.Run(append([]string{r.name}, args...))
	code := ExitCode(err)
	if err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(r.errWriter, "%s: error: %s\n", r.name, msg)
		}
		r.logger.Debug("command failed", "exit_code", code, "err", err)
	}
	return code
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var unknown *UnknownPluginError
	if errors.As(err, &unknown) || errors.Is(err, ErrUnknownCommand) {
		return ExitUsage
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return ExitError
}
