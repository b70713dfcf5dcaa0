package stacpopulator

import (
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/stacpopulator/httpsession"
	"github.com/poiesic/stacpopulator/marble"
	"github.com/urfave/cli/v2"
)

// Operation modes.
const (
	// ModeFull ingests every record of the HREF feed.
	ModeFull = "full"
	// ModeSingle ingests only the referenced dataset. Not available yet.
	ModeSingle = "single"
)

// Config holds the options shared by every populator.
type Config struct {
	// STACHost is the catalog: an http(s) STAC API root, or a local catalog directory.
	STACHost string
	// HREF is the record feed to ingest.
	HREF string

	Update      bool
	Mode        string
	ConfigFile  string // collection configuration overriding the embedded one
	MagpieLinks bool
	Debug       bool
	Strict      bool
	Workers     int

	// ProgressInterval enables progress reporting when positive.
	ProgressInterval time.Duration

	NodeRegistry string
	HostNode     string
	HostMatch    marble.MatchPolicy

	Session httpsession.Options
}

// DefaultConfig returns a configuration with default values. STACHost and HREF must be set.
func DefaultConfig() *Config {
	return &Config{
		Mode:         ModeFull,
		Workers:      1,
		NodeRegistry: marble.DefaultRegistryURL,
		HostMatch:    marble.MatchSubstring,
		Session:      httpsession.DefaultOptions(),
	}
}

// Validate checks that the configuration can be used to run a populator.
func (c *Config) Validate() error {
	if c.STACHost == "" {
		return ErrSTACHostRequired
	}
	if c.HREF == "" {
		return ErrHREFRequired
	}
	switch c.Mode {
	case ModeFull, ModeSingle:
	default:
		return fmt.Errorf("%w %q: must be %s or %s", ErrInvalidMode, c.Mode, ModeFull, ModeSingle)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidWorkers, c.Workers)
	}
	if _, err := marble.ParseMatchPolicy(string(c.HostMatch)); err != nil {
		return err
	}
	return c.Session.Validate()
}

// Flags returns the command line flags read by ConfigFromContext.
func Flags() []cli.Flag {
	defaults := DefaultConfig()
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "update",
			Usage: "Update collection and its items",
		},
		&cli.StringFlag{
			Name:  "mode",
			Usage: "Operation mode, processing the full dataset or only the single reference (full, single)",
			Value: defaults.Mode,
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Override the collection configuration file of the populator",
		},
		&cli.BoolFlag{
			Name:  "add-magpie-item-links",
			Usage: "Link each item to its HTTPServer resource so Magpie can manage item permissions",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Abort on the first record that fails instead of continuing",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of records built and published concurrently",
			Value: defaults.Workers,
		},
		&cli.DurationFlag{
			Name:  "progress-interval",
			Usage: "Report progress on stderr at this interval (0 disables)",
		},
		&cli.StringFlag{
			Name:  "node-registry",
			Usage: "Marble node registry used to infer the host node (URL or file)",
			Value: defaults.NodeRegistry,
		},
		&cli.StringFlag{
			Name:  "host-node",
			Usage: "Marble node hosting the data, bypassing the registry lookup",
		},
		&cli.StringFlag{
			Name:  "host-match",
			Usage: "How the catalog URL is matched against node URLs (substring, exact)",
			Value: string(defaults.HostMatch),
		},
	}
	return append(flags, httpsession.Flags()...)
}

// ConfigFromContext reads the configuration from a command parsed with Flags.
// The two positional arguments are STAC_HOST and HREF.
func ConfigFromContext(c *cli.Context) (*Config, error) {
	args := c.Args().Slice()
	if len(args) > 2 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedArgument, strings.Join(args[2:], " "))
	}

	policy, err := marble.ParseMatchPolicy(c.String("host-match"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		STACHost:         c.Args().Get(0),
		HREF:             c.Args().Get(1),
		Update:           c.Bool("update"),
		Mode:             strings.ToLower(c.String("mode")),
		ConfigFile:       c.String("config"),
		MagpieLinks:      c.Bool("add-magpie-item-links"),
		Debug:            c.Bool("debug"),
		Strict:           c.Bool("strict"),
		Workers:          c.Int("workers"),
		ProgressInterval: c.Duration("progress-interval"),
		NodeRegistry:     c.String("node-registry"),
		HostNode:         c.String("host-node"),
		HostMatch:        policy,
		Session:          httpsession.OptionsFromContext(c),
	}
	cfg.Session.UserAgent = UserAgent()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
