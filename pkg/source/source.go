package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/carlmjohnson/requests"
	"github.com/djcass44/debdeps/pkg/archiveutil"
	"github.com/djcass44/debdeps/pkg/requestutil"
	"github.com/go-logr/logr"
)

// Validate checks that location is usable for the given mode
// before any attempt is made to read from it.
func Validate(mode Mode, location string) error {
	switch mode {
	case ModeRemote:
		if !isValidURL(location) {
			return fmt.Errorf("%w: %s", ErrInvalidURL, location)
		}
	case ModeLocal:
		if _, err := os.Stat(location); err != nil {
			return fmt.Errorf("%w: %s", ErrNotExist, location)
		}
	case ModeMock:
		// anything goes
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return nil
}

func isValidURL(s string) bool {
	uri, err := url.Parse(s)
	if err != nil {
		return false
	}
	return uri.Scheme != "" && uri.Host != ""
}

// NewFetcher creates a Fetcher that uses the given HTTP client for
// remote sources. If client is nil, http.DefaultClient is used.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// Fetch reads the index at location and decompresses it based on the
// suffix of location.
func (f *Fetcher) Fetch(ctx context.Context, mode Mode, location string) ([]byte, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("mode", mode, "location", location)
	log.V(1).Info("fetching index")

	var raw []byte
	var err error
	switch mode {
	case ModeLocal:
		raw, err = f.readLocal(ctx, location)
	case ModeRemote:
		raw, err = f.readRemote(ctx, location)
	case ModeMock:
		return nil, ErrMockSource
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if err != nil {
		return nil, err
	}
	log.V(2).Info("retrieved index", "bytes", len(raw))

	r, err := archiveutil.Decompress(ctx, location, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", location, err)
	}
	log.V(2).Info("decompressed index", "bytes", len(out))
	return out, nil
}

func (*Fetcher) readLocal(ctx context.Context, path string) ([]byte, error) {
	log := logr.FromContextOrDiscard(ctx)
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		log.Error(err, "failed to read file", "path", path)
		return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	return data, nil
}

func (f *Fetcher) readRemote(ctx context.Context, target string) ([]byte, error) {
	log := logr.FromContextOrDiscard(ctx)

	buf := &bytes.Buffer{}
	handler := requests.ToBytesBuffer(buf)
	// only sniff the response if the name doesn't already tell us
	// how to decompress it, otherwise we'd do it twice
	if archiveutil.CompressionFromName(target) == archiveutil.CompressionNone {
		handler = requestutil.WithGzip(buf)
	}

	err := requests.URL(target).
		Client(f.client).
		Handle(handler).
		Fetch(ctx)
	if err != nil {
		log.V(1).Info("failed to download file", "url", target, "error", err.Error())
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	log.V(1).Info("successfully downloaded index", "url", target)
	return buf.Bytes(), nil
}
