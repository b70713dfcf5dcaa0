package marble

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
)

// DefaultRegistryURL is the published Marble node registry.
const DefaultRegistryURL = "https://raw.githubusercontent.com/DACCS-Climate/Marble-node-registry/current-registry/node_registry.json"

// MatchPolicy selects how a catalog hostname is matched against node URLs.
type MatchPolicy string

const (
	MatchSubstring MatchPolicy = "substring"
	MatchExact     MatchPolicy = "exact"
)

// ParseMatchPolicy parses a policy name; empty means MatchSubstring.
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch MatchPolicy(strings.ToLower(s)) {
	case "", MatchSubstring:
		return MatchSubstring, nil
	case MatchExact:
		return MatchExact, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMatchPolicy, s)
	}
}

// Link is a node registry link.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
	Type string `json:"type,omitempty"`
}

// Node is one Marble node.
type Node struct {
	Name  string `json:"name"`
	Links []Link `json:"links"`
}

// URL returns the href of the node's "service" link, or "".
func (n Node) URL() string {
	for _, l := range n.Links {
		if l.Rel == "service" {
			return l.Href
		}
	}
	return ""
}

// Registry is a decoded node registry.
type Registry struct {
	nodes map[string]Node
}

// ParseRegistry decodes a registry document.
func ParseRegistry(data []byte) (*Registry, error) {
	var raw map[string]Node
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRegistry, err)
	}
	nodes := make(map[string]Node, len(raw))
	for name, node := range raw {
		node.Name = name
		nodes[name] = node
	}
	return &Registry{nodes: nodes}, nil
}

// Fetch loads the registry from an http(s) URL through client, or from a local file.
func Fetch(ctx context.Context, client *http.Client, location string) (*Registry, error) {
	if location == "" {
		location = DefaultRegistryURL
	}

	var data []byte
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if client == nil {
			client = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
		}
		req.Header.Set("Accept", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: %s returned %d", ErrRegistryUnavailable, location, resp.StatusCode)
		}
		if data, err = io.ReadAll(resp.Body); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
		}
	} else {
		var err error
		if data, err = os.ReadFile(strings.TrimPrefix(location, "file://")); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
		}
	}
	return ParseRegistry(data)
}

// Names returns the node names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.nodes))
}

// Node returns the node registered under name.
func (r *Registry) Node(name string) (Node, bool) {
	n, ok := r.nodes[name]
	return n, ok
}

// ResolveHost returns the name of the node serving catalogURL.
func (r *Registry) ResolveHost(catalogURL string, policy MatchPolicy, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	u, err := url.Parse(catalogURL)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("%w: %q has no hostname", ErrHostNodeUnknown, catalogURL)
	}
	hostname := u.Hostname()

	var matches []string
	for _, name := range r.Names() {
		nodeURL := r.nodes[name].URL()
		if nodeURL == "" {
			continue
		}
		switch policy {
		case MatchExact:
			if nu, err := url.Parse(nodeURL); err == nil && strings.EqualFold(nu.Hostname(), hostname) {
				matches = append(matches, name)
			}
		default:
			if strings.Contains(nodeURL, hostname) {
				matches = append(matches, name)
			}
		}
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrHostNodeUnknown, hostname)
	}
	chosen := matches[len(matches)-1]
	if len(matches) > 1 {
		logger.Warn("several Marble nodes match the catalog host",
			"host", hostname, "matches", matches, "chosen", chosen)
	}
	logger.Debug("resolved Marble host node", "host", hostname, "node", chosen, "policy", policy)
	return chosen, nil
}
