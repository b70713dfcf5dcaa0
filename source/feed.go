package source

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/poiesic/stacpopulator/core"
)

// Feed reads records from a JSON document exported from a THREDDS catalog.
// The document is either a JSON array of records or a stream of record objects
// (newline-delimited JSON). Records are decoded one at a time as iteration proceeds.
type Feed struct {
	href   string
	client *http.Client
	logger *slog.Logger
}

var _ Source = (*Feed)(nil)

// NewFeed creates a feed source.
// href: an http(s) URL fetched with client, or a local path (optionally prefixed with file://).
// A nil client uses http.DefaultClient. The client timeout bounds the wait for response
// headers only; the body is read for as long as iteration runs.
func NewFeed(href string, client *http.Client) *Feed {
	if client == nil {
		client = http.DefaultClient
	}
	return &Feed{
		href:   href,
		client: client,
		logger: slog.Default(),
	}
}

// ForEach implements Source.
func (f *Feed) ForEach(ctx context.Context, fn func(*core.RawRecord) error) error {
	rc, err := f.open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	body := &readErrorReader{r: rc}
	// classify separates transport failures from undecodable content.
	classify := func(err error, where string) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if body.err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFeedUnavailable, where, body.err)
		}
		return fmt.Errorf("%w: %s: %w", ErrMalformedFeed, where, err)
	}

	reader := bufio.NewReader(body)
	first, err := peekNonSpace(reader)
	if err != nil {
		if errors.Is(err, io.EOF) && body.err == nil {
			return nil
		}
		return classify(err, "start")
	}

	dec := json.NewDecoder(reader)
	index := 0
	next := func() (*core.RawRecord, error) {
		var record core.RawRecord
		if err := dec.Decode(&record); err != nil {
			if errors.Is(err, io.EOF) && body.err == nil {
				return nil, err
			}
			return nil, classify(err, fmt.Sprintf("entry %d", index))
		}
		index++
		return &record, nil
	}

	if first == '[' {
		if _, err := dec.Token(); err != nil {
			return classify(err, "start")
		}
		for dec.More() {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, err := next()
			if err != nil {
				return err
			}
			if err := fn(record); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil {
			return classify(err, fmt.Sprintf("entry %d", index))
		}
		f.logger.Debug("feed exhausted", "href", f.href, "records", index)
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := next()
		if errors.Is(err, io.EOF) {
			f.logger.Debug("feed exhausted", "href", f.href, "records", index)
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(record); err != nil {
			return err
		}
	}
}

func (f *Feed) open(ctx context.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(f.href, "http://") || strings.HasPrefix(f.href, "https://") {
		return f.fetch(ctx)
	}

	file, err := os.Open(strings.TrimPrefix(f.href, "file://"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}
	return file, nil
}

// fetch issues the GET and returns the body once headers arrive.
// http.Client.Timeout also covers reading the body, so the request runs on a copy
// of the client without it and the timeout is applied to the header wait instead.
func (f *Feed) fetch(ctx context.Context) (io.ReadCloser, error) {
	ctx, cancel := context.WithCancel(ctx)
	client := *f.client
	headerTimeout := client.Timeout
	client.Timeout = 0

	var timer *time.Timer
	if headerTimeout > 0 {
		timer = time.AfterFunc(headerTimeout, cancel)
	}
	fail := func(err error) (io.ReadCloser, error) {
		cancel()
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.href, nil)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrFeedUnavailable, err))
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if timer != nil && !timer.Stop() {
		if err == nil {
			resp.Body.Close()
		}
		return fail(fmt.Errorf("%w: GET %s: no response within %s", ErrFeedUnavailable, f.href, headerTimeout))
	}
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrFeedUnavailable, err))
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fail(fmt.Errorf("%w: GET %s: status %d", ErrFeedUnavailable, f.href, resp.StatusCode))
	}
	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// readErrorReader remembers the first read error other than io.EOF.
type readErrorReader struct {
	r   io.Reader
	err error
}

func (r *readErrorReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && r.err == nil {
		r.err = err
	}
	return n, err
}

// peekNonSpace skips leading whitespace and returns the next byte without consuming it.
func peekNonSpace(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := r.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}
