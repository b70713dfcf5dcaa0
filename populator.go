package stacpopulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/poiesic/stacpopulator/catalog"
	catalogbadger "github.com/poiesic/stacpopulator/catalog/badger"
	"github.com/poiesic/stacpopulator/catalog/stacapi"
	"github.com/poiesic/stacpopulator/httpsession"
	"github.com/poiesic/stacpopulator/ingestion"
	"github.com/poiesic/stacpopulator/marble"
	"github.com/poiesic/stacpopulator/source"
)

// StageFactory returns the stages of a populator, in execution order.
type StageFactory func(ctx context.Context, env *Environment) ([]ingestion.Stage, error)

// Definition describes one populator.
type Definition struct {
	Name        string
	Usage       string
	Description string

	// CollectionConfig is the default collection configuration (YAML),
	// used unless Config.ConfigFile is set.
	CollectionConfig []byte

	Identify ingestion.Identifier
	Stages   StageFactory
}

func (d *Definition) validate() error {
	if d == nil {
		return ErrDefinitionRequired
	}
	switch {
	case d.Name == "":
		return fmt.Errorf("%w: name", ErrIncompleteDefinition)
	case d.Identify == nil:
		return fmt.Errorf("%w: identifier", ErrIncompleteDefinition)
	case d.Stages == nil:
		return fmt.Errorf("%w: stages", ErrIncompleteDefinition)
	}
	return nil
}

// Environment is what stage factories may use to build their stages.
type Environment struct {
	Config     *Config
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// HostNode returns the Marble node hosting the data: --host-node when given,
// otherwise the registry node whose URL matches the host of HREF.
func (e *Environment) HostNode(ctx context.Context) (string, error) {
	if e.Config.HostNode != "" {
		return e.Config.HostNode, nil
	}
	registry, err := marble.Fetch(ctx, e.HTTPClient, e.Config.NodeRegistry)
	if err != nil {
		return "", err
	}
	return registry.ResolveHost(e.Config.HREF, e.Config.HostMatch, e.Logger)
}

// Populator is one configured ingestion run. It owns an HTTP session and a catalog client,
// both released by Close.
type Populator struct {
	def          *Definition
	config       *Config
	session      *httpsession.Session
	catalog      catalog.Client
	collection   *catalog.Collection
	source       source.Source
	orchestrator *ingestion.Orchestrator
	logger       *slog.Logger

	progress io.Writer

	closeOnce sync.Once
	closeErr  error
	closed    bool
	mu        sync.Mutex
}

// Option configures a Populator.
type Option func(*Populator) error

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Populator) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// WithSource replaces the data source selected by the configured mode.
func WithSource(src source.Source) Option {
	return func(p *Populator) error {
		p.source = src
		return nil
	}
}

// WithProgressOutput sets where progress is reported when Config.ProgressInterval is set.
// Defaults to stderr.
func WithProgressOutput(w io.Writer) Option {
	return func(p *Populator) error {
		p.progress = w
		return nil
	}
}

// New assembles a populator. Resources acquired before a failure are released.
func New(ctx context.Context, def *Definition, cfg *Config, opts ...Option) (*Populator, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Populator{
		def:      def,
		config:   cfg,
		logger:   slog.Default(),
		progress: os.Stderr,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("populator", def.Name)

	collectionConfig, err := loadCollectionConfig(def, cfg)
	if err != nil {
		return nil, err
	}
	p.collection = collectionConfig.Collection()

	p.session, err = httpsession.New(cfg.Session, httpsession.WithLogger(p.logger))
	if err != nil {
		return nil, err
	}

	p.catalog, err = OpenCatalog(cfg.STACHost, p.session.Client(), p.logger)
	if err != nil {
		p.session.Close()
		return nil, err
	}

	if err := p.assemble(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *Populator) assemble(ctx context.Context) error {
	if p.source == nil {
		p.source = selectSource(p.config, p.session.Client())
	}

	env := &Environment{Config: p.config, HTTPClient: p.session.Client(), Logger: p.logger}
	stages, err := p.def.Stages(ctx, env)
	if err != nil {
		return fmt.Errorf("building %s stages: %w", p.def.Name, err)
	}

	pipeline, err := ingestion.NewPipeline(p.collection.ID, p.def.Identify, p.catalog, stages...)
	if err != nil {
		return err
	}

	orchestratorOpts := []ingestion.Option{
		ingestion.WithStrict(p.config.Strict),
		ingestion.WithConcurrency(p.config.Workers),
		ingestion.WithLogger(p.logger),
	}
	if p.config.ProgressInterval > 0 {
		orchestratorOpts = append(orchestratorOpts, ingestion.WithProgress(p.progress, p.config.ProgressInterval))
	}
	p.orchestrator, err = ingestion.NewOrchestrator(p.catalog, pipeline, orchestratorOpts...)
	return err
}

func loadCollectionConfig(def *Definition, cfg *Config) (*catalog.CollectionConfig, error) {
	if cfg.ConfigFile != "" {
		return catalog.LoadCollectionConfig(cfg.ConfigFile)
	}
	if len(def.CollectionConfig) == 0 {
		return nil, fmt.Errorf("%w: collection configuration", ErrIncompleteDefinition)
	}
	return catalog.ParseCollectionConfig(def.CollectionConfig)
}

func selectSource(cfg *Config, client *http.Client) source.Source {
	if cfg.Mode == ModeSingle {
		return source.Failing{Mode: ModeSingle}
	}
	return source.NewFeed(cfg.HREF, client)
}

// OpenCatalog connects to the catalog named by stacHost: an http(s) URL is a STAC API,
// anything else is a local catalog directory (a file:// prefix is accepted).
func OpenCatalog(stacHost string, client *http.Client, logger *slog.Logger) (catalog.Client, error) {
	if strings.HasPrefix(stacHost, "http://") || strings.HasPrefix(stacHost, "https://") {
		return stacapi.New(stacHost, client, stacapi.WithLogger(logger))
	}
	return catalogbadger.Open(strings.TrimPrefix(stacHost, "file://"), catalogbadger.WithLogger(logger))
}

// Collection returns the collection items are published to.
func (p *Populator) Collection() *catalog.Collection {
	return p.collection
}

// Catalog returns the catalog client.
func (p *Populator) Catalog() catalog.Client {
	return p.catalog
}

// Ingest creates (or, with update, replaces) the collection, then ingests every record.
// The summary is returned even when err is non-nil.
func (p *Populator) Ingest(ctx context.Context) (*ingestion.Summary, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrPopulatorClosed
	}

	p.logger.Info("ensuring collection", "collection", p.collection.ID, "catalog", p.config.STACHost)
	if err := p.catalog.EnsureCollection(ctx, p.collection, p.config.Update); err != nil {
		return &ingestion.Summary{}, fmt.Errorf("collection %s: %w", p.collection.ID, err)
	}
	return p.orchestrator.Ingest(ctx, p.source, p.config.Update)
}

// Close releases the catalog client and the HTTP session. It is safe to call more than once.
func (p *Populator) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		var errs []error
		if p.catalog != nil {
			if err := p.catalog.Close(); err != nil {
				p.logger.Error("error closing catalog", "err", err)
				errs = append(errs, err)
			}
		}
		if p.session != nil {
			if err := p.session.Close(); err != nil {
				p.logger.Error("error closing HTTP session", "err", err)
				errs = append(errs, err)
			}
		}
		p.closeErr = errors.Join(errs...)
	})
	return p.closeErr
}
