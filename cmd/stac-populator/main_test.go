package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/stacpopulator"
	"github.com/poiesic/stacpopulator/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, router.ExitOK, run(nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "run")

	stdout.Reset()
	assert.Equal(t, router.ExitOK, run([]string{"run"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "CMIP6_UofT")
	assert.Contains(t, stdout.String(), "NEX_GDDP_UofT")
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, router.ExitOK, run([]string{"--version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), stacpopulator.Version)
}

func TestRun_UnknownPlugin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, router.ExitUsage, run([]string{"run", "CMIP5_UofT", "host", "href"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "CMIP5_UofT")
}

func TestRun_InvalidLogLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, router.ExitError, run([]string{"--log-level", "loud", "run"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "invalid log level")
}

func TestRun_MissingFeed(t *testing.T) {
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "missing.json")
	code := run([]string{"run", "NEX_GDDP_UofT", t.TempDir(), missing}, &stdout, &stderr)
	assert.Equal(t, router.ExitError, code)
	assert.Contains(t, stderr.String(), "record feed unavailable")
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"WaRn", slog.LevelWarn},
			{"ERROR", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "log-level", Value: "info"},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						assert.True(t, slog.Default().Enabled(c.Context, tc.expected))
						assert.False(t, slog.Default().Enabled(c.Context, tc.expected-1))
						return nil
					},
				}
				require.NoError(t, app.Run([]string{"test", "--log-level", tc.input}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name:   "test",
			Flags:  []cli.Flag{&cli.StringFlag{Name: "log-level", Value: "info"}},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestMain(m *testing.M) {
	defaultLogger := slog.Default()
	code := m.Run()
	slog.SetDefault(defaultLogger)
	os.Exit(code)
}
