package stacpopulator

import (
	"context"
	"log/slog"

	"github.com/poiesic/stacpopulator/plugin"
	"github.com/urfave/cli/v2"
)

// Module exposes a Definition as a plugin module.
type Module struct {
	def  *Definition
	opts []Option
}

var (
	_ plugin.ParserFactory    = (*Module)(nil)
	_ plugin.EntryPoint       = (*Module)(nil)
	_ plugin.OutputEntryPoint = (*Module)(nil)
	_ plugin.Runner           = (*Module)(nil)
)

// NewModule creates a plugin module for def. opts are applied to every populator it runs.
func NewModule(def *Definition, opts ...Option) *Module {
	return &Module{def: def, opts: opts}
}

// Definition returns the populator definition.
func (m *Module) Definition() *Definition {
	return m.def
}

// MakeParser implements plugin.ParserFactory.
func (m *Module) MakeParser() *plugin.Parser {
	return &plugin.Parser{
		Usage:       m.def.Usage,
		Description: m.def.Description,
		ArgsUsage:   "STAC_HOST HREF",
		Flags:       Flags(),
	}
}

// Main implements plugin.EntryPoint. args are everything after the plugin name.
func (m *Module) Main(args ...string) error {
	return m.MainWithOutput(plugin.Output{}, args...)
}

// MainWithOutput implements plugin.OutputEntryPoint.
func (m *Module) MainWithOutput(out plugin.Output, args ...string) error {
	return plugin.RunStandaloneWithOutput(out, m.def.Name, m.MakeParser(), m.Run, args...)
}

// Run implements plugin.Runner: it ingests the feed and writes the summary to the
// application writer.
func (m *Module) Run(c *cli.Context) error {
	cfg, err := ConfigFromContext(c)
	if err != nil {
		return err
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	opts := m.opts
	if cfg.Debug {
		logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(append([]Option{}, opts...), WithLogger(logger))
	}

	pop, err := New(ctx, m.def, cfg, opts...)
	if err != nil {
		return err
	}
	defer pop.Close()

	summary, err := pop.Ingest(ctx)
	if summary != nil {
		summary.Write(c.App.Writer)
	}
	return err
}

// EntryPointOnly returns the module without its runner. The router then passes the
// raw arguments to Main instead of parsing them itself.
func (m *Module) EntryPointOnly() interface {
	plugin.ParserFactory
	plugin.EntryPoint
	plugin.OutputEntryPoint
} {
	return entryPointModule{m: m}
}

type entryPointModule struct {
	m *Module
}

func (e entryPointModule) MakeParser() *plugin.Parser {
	return e.m.MakeParser()
}

func (e entryPointModule) Main(args ...string) error {
	return e.m.Main(args...)
}

func (e entryPointModule) MainWithOutput(out plugin.Output, args ...string) error {
	return e.m.MainWithOutput(out, args...)
}
