package plugin

import (
	"slices"

	"github.com/urfave/cli/v2"
)

// Parser describes the command line of a plugin.
type Parser struct {
	Usage       string
	Description string
	ArgsUsage   string
	Flags       []cli.Flag
}

// HasFlag reports whether the parser declares a flag with the given name or alias.
func (p *Parser) HasFlag(name string) bool {
	for _, f := range p.Flags {
		if slices.Contains(f.Names(), name) {
			return true
		}
	}
	return false
}

// HidesHelp reports whether the plugin declares its own help flag, in which case
// the generated help flag must not be added.
func (p *Parser) HidesHelp() bool {
	return p.HasFlag("help") || p.HasFlag("h")
}

// App builds a standalone application named name from the parser.
// The application never exits the process; callers receive the action's error.
func (p *Parser) App(name string, action cli.ActionFunc) *cli.App {
	return &cli.App{
		Name:           name,
		Usage:          p.Usage,
		Description:    p.Description,
		ArgsUsage:      p.ArgsUsage,
		Flags:          p.Flags,
		HideHelp:       p.HidesHelp(),
		HideVersion:    true,
		Action:         action,
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// RunStandalone parses args with parser and calls run with the parsed context.
// This is how a plugin entry point serves the same options as the router.
func RunStandalone(name string, parser *Parser, run cli.ActionFunc, args ...string) error {
	return RunStandaloneWithOutput(Output{}, name, parser, run, args...)
}

// RunStandaloneWithOutput is RunStandalone with the application writers set from out.
func RunStandaloneWithOutput(out Output, name string, parser *Parser, run cli.ActionFunc, args ...string) error {
	app := parser.App(name, run)
	app.Writer = out.Writer
	app.ErrWriter = out.ErrWriter
	return app.Run(append([]string{name}, args...))
}
