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

package plugin

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/urfave/cli/v2"
)

// ParserFactory is implemented by modules that describe their command line.
type ParserFactory interface {
	MakeParser() *Parser
}

// EntryPoint is implemented by modules that can run from raw arguments.
type EntryPoint interface {
	Main(args ...string) error
}

// Output is where a plugin writes its results and diagnostics.
// A nil writer means the process stream.
type Output struct {
	Writer    io.Writer
	ErrWriter io.Writer
}

// OutputEntryPoint is implemented by entry points that can write to given streams.
// The router prefers it over EntryPoint so plugin output follows the router's writers.
type OutputEntryPoint interface {
	MainWithOutput(out Output, args ...string) error
}

// Runner is implemented by modules that can run from an already-parsed command.
type Runner interface {
	Run(c *cli.Context) error
}

// Descriptor is a registered plugin.
type Descriptor struct {
	Name   string
	Path   string
	Parser *Parser
	Main   func(args ...string) error
	Runner cli.ActionFunc // nil when the module only has an entry point

	// MainWithOutput runs the entry point writing to out. Entry points without
	// OutputEntryPoint ignore out and use the process streams.
	MainWithOutput func(out Output, args ...string) error

	factory ParserFactory
}

// NewParser returns a fresh parser from the module. Flag values are stateful,
// so every command surface built from the descriptor gets its own.
func (d *Descriptor) NewParser() *Parser {
	if p := d.factory.MakeParser(); p != nil {
		return p
	}
	return &Parser{}
}

// Registry holds the plugins found by the last discovery.
// It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
	logger      *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry) error

// WithLogger sets the logger used for discovery diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{
		descriptors: make(map[string]*Descriptor),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Discover loads every candidate of ns and registers the qualifying ones,
// replacing the registry content. Candidates that fail to load or lack the
// required capabilities are skipped. Two qualifying modules with the same
// plugin name fail discovery with a *RegistrationError and leave the registry
// unchanged.
func (r *Registry) Discover(ns *Namespace) (map[string]*Descriptor, error) {
	found := make(map[string]*Descriptor)

	for _, path := range ns.Paths() {
		load, _ := ns.loader(path)
		name := PluginName(path)

		desc, err := describe(name, path, load)
		if err != nil {
			r.logger.Debug("skipping module", "namespace", ns.Name(), "module", path, "err", err)
			continue
		}
		if existing, dup := found[name]; dup {
			return nil, &RegistrationError{Name: name, Path: path, ExistingPath: existing.Path}
		}
		found[name] = desc
		r.logger.Debug("registered plugin", "plugin", name, "module", path, "runner", desc.Runner != nil)
	}

	r.mu.Lock()
	r.descriptors = found
	r.mu.Unlock()
	return maps.Clone(found), nil
}

func describe(name, path string, load Loader) (desc *Descriptor, err error) {
	defer func() {
		if p := recover(); p != nil {
			desc, err = nil, fmt.Errorf("loading module panicked: %v", p)
		}
	}()

	module, err := load()
	if err != nil {
		return nil, fmt.Errorf("loading module: %w", err)
	}
	factory, ok := module.(ParserFactory)
	if !ok {
		return nil, fmt.Errorf("%w: MakeParser", ErrMissingCapability)
	}
	entry, ok := module.(EntryPoint)
	if !ok {
		return nil, fmt.Errorf("%w: Main", ErrMissingCapability)
	}

	desc = &Descriptor{
		Name:    name,
		Path:    path,
		Main:    entry.Main,
		factory: factory,
	}
	desc.Parser = desc.NewParser()
	if o, ok := module.(OutputEntryPoint); ok {
		desc.MainWithOutput = o.MainWithOutput
	} else {
		desc.MainWithOutput = func(_ Output, args ...string) error { return entry.Main(args...) }
	}
	if runner, ok := module.(Runner); ok {
		desc.Runner = runner.Run
	}
	return desc, nil
}

// Lookup returns the plugin registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[name]
	return d, ok
}

// Names returns the registered plugin names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.descriptors))
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}
