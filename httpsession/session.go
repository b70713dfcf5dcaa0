package httpsession

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// Session is the HTTP client shared by one populator run.
type Session struct {
	client *http.Client
	logger *slog.Logger
	once   sync.Once
	closed bool
	mu     sync.Mutex
}

// Option configures a Session.
type Option func(*Session) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a session from opts.
func New(opts Options, sessionOpts ...Option) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s := &Session{logger: slog.Default()}
	for _, opt := range sessionOpts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = &tls.Config{InsecureSkipVerify: opts.NoVerify}
	if opts.CertFile != "" {
		keyFile := opts.KeyFile
		if keyFile == "" {
			keyFile = opts.CertFile
		}
		cert, err := tls.LoadX509KeyPair(opts.CertFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		base.TLSClientConfig.Certificates = []tls.Certificate{cert}
	}
	if opts.NoVerify {
		s.logger.Warn("TLS certificate verification is disabled")
	}

	var transport http.RoundTripper = base
	if opts.AuthHandler != "" || opts.UserAgent != "" {
		transport = &headerRoundTripper{base: base, opts: opts}
	}

	s.client = &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}
	s.logger.Debug("http session created",
		"auth", opts.AuthHandler,
		"timeout", opts.Timeout,
		"client_cert", opts.CertFile != "")
	return s, nil
}

// Client returns the HTTP client of the session.
func (s *Session) Client() *http.Client {
	return s.client
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases idle connections. It is safe to call more than once.
func (s *Session) Close() error {
	s.once.Do(func() {
		s.client.CloseIdleConnections()
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.logger.Debug("http session closed")
	})
	return nil
}

// headerRoundTripper adds authentication and identification headers to every request.
type headerRoundTripper struct {
	base http.RoundTripper
	opts Options
}

func (t *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	newReq := req.Clone(req.Context())
	if t.opts.UserAgent != "" {
		newReq.Header.Set("User-Agent", t.opts.UserAgent)
	}

	switch t.opts.AuthHandler {
	case AuthBasic:
		user, password, _ := strings.Cut(t.opts.AuthIdentity, ":")
		newReq.SetBasicAuth(user, password)
	case AuthProxy:
		proxyReq := &http.Request{Header: make(http.Header)}
		user, password, _ := strings.Cut(t.opts.AuthIdentity, ":")
		proxyReq.SetBasicAuth(user, password)
		newReq.Header.Set("Proxy-Authorization", proxyReq.Header.Get("Authorization"))
	case AuthBearer:
		newReq.Header.Set("Authorization", "Bearer "+t.opts.AuthIdentity)
	case AuthCookie:
		name, value, _ := strings.Cut(t.opts.AuthIdentity, "=")
		newReq.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	return t.base.RoundTrip(newReq)
}
