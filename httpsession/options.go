package httpsession

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// Supported authentication handlers.
const (
	AuthBasic  = "basic"
	AuthBearer = "bearer"
	AuthProxy  = "proxy"
	AuthCookie = "cookie"
)

// Options configures a Session.
type Options struct {
	// NoVerify disables TLS certificate verification.
	NoVerify bool

	// CertFile and KeyFile are a client certificate. KeyFile may be empty when
	// CertFile holds both.
	CertFile string
	KeyFile  string

	// AuthHandler is one of the Auth* constants, or empty for no authentication.
	// AuthIdentity is "user:password" for basic and proxy, the token for bearer
	// and "name=value" for cookie.
	AuthHandler  string
	AuthIdentity string

	// Timeout bounds every request. Zero means no timeout.
	Timeout time.Duration

	// UserAgent is sent on every request when set.
	UserAgent string
}

// DefaultOptions returns the options used when no request flags are given.
func DefaultOptions() Options {
	return Options{
		Timeout: 30 * time.Second,
	}
}

// Validate checks that the options are consistent.
func (o Options) Validate() error {
	if o.KeyFile != "" && o.CertFile == "" {
		return ErrKeyWithoutCert
	}
	if o.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", o.Timeout)
	}

	switch o.AuthHandler {
	case "":
		return nil
	case AuthBasic, AuthProxy:
		if _, _, ok := strings.Cut(o.AuthIdentity, ":"); !ok {
			return fmt.Errorf("%w: %s expects user:password", ErrInvalidAuthIdentity, o.AuthHandler)
		}
	case AuthBearer:
		if o.AuthIdentity == "" {
			return fmt.Errorf("%w: bearer expects a token", ErrInvalidAuthIdentity)
		}
	case AuthCookie:
		if name, _, ok := strings.Cut(o.AuthIdentity, "="); !ok || name == "" {
			return fmt.Errorf("%w: cookie expects name=value", ErrInvalidAuthIdentity)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAuthHandler, o.AuthHandler)
	}
	return nil
}

// Flags returns the request flags understood by OptionsFromContext.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "no-verify",
			Aliases: []string{"no-ssl"},
			Usage:   "Disable SSL verification (not recommended unless for development/test servers)",
		},
		&cli.StringFlag{
			Name:  "cert",
			Usage: "Path to a certificate file to use",
		},
		&cli.StringFlag{
			Name:  "key",
			Usage: "Path to a key file to use",
		},
		&cli.StringFlag{
			Name:  "auth-handler",
			Usage: "Authentication strategy for HTTP requests (basic, bearer, proxy, cookie)",
		},
		&cli.StringFlag{
			Name:  "auth-identity",
			Usage: "Identity for the auth handler (user:password, token or cookie name=value)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Timeout of each HTTP request",
			Value: DefaultOptions().Timeout,
		},
	}
}

// OptionsFromContext reads the request flags from a parsed command.
func OptionsFromContext(c *cli.Context) Options {
	return Options{
		NoVerify:     c.Bool("no-verify"),
		CertFile:     c.String("cert"),
		KeyFile:      c.String("key"),
		AuthHandler:  strings.ToLower(c.String("auth-handler")),
		AuthIdentity: c.String("auth-identity"),
		Timeout:      c.Duration("timeout"),
	}
}
