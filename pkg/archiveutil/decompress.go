package archiveutil

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-logr/logr"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/mholt/archives"
	"github.com/ulikunitz/xz"
)

type Compression string

const (
	CompressionNone  Compression = ""
	CompressionGzip  Compression = "gz"
	CompressionXZ    Compression = "xz"
	CompressionZstd  Compression = "zst"
	CompressionBzip2 Compression = "bz2"
)

var compressions = []Compression{
	CompressionGzip,
	CompressionXZ,
	CompressionZstd,
	CompressionBzip2,
}

// CompressionFromName guesses the compression of a file from the
// suffix of its name. Names may be filesystem paths or URLs.
func CompressionFromName(name string) Compression {
	name = strings.ToLower(stripQuery(name))
	for _, c := range compressions {
		if strings.HasSuffix(name, c.Extension()) {
			return c
		}
	}
	return CompressionNone
}

func (c Compression) Extension() string {
	if c == CompressionNone {
		return ""
	}
	return "." + string(c)
}

func (c Compression) String() string {
	if c == CompressionNone {
		return "none"
	}
	return string(c)
}

// Reader wraps r so that reading from it yields the decompressed stream.
func (c Compression) Reader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionXZ:
		reader, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(reader), nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CompressionBzip2:
		return archives.Bz2{}.OpenReader(r)
	case CompressionNone:
		return io.NopCloser(r), nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", c)
	}
}

// Decompress returns a reader over the decompressed contents of r,
// using the suffix of name to decide how it was compressed. Streams
// whose name has no recognised suffix are passed through as-is.
func Decompress(ctx context.Context, name string, r io.Reader) (io.ReadCloser, error) {
	c := CompressionFromName(name)
	log := logr.FromContextOrDiscard(ctx).WithValues("name", name, "compression", c.String())
	log.V(3).Info("preparing stream")

	reader, err := c.Reader(r)
	if err != nil {
		log.Error(err, "failed to open compressed stream")
		return nil, fmt.Errorf("decompressing %s: %w", c, err)
	}
	return reader, nil
}

// stripQuery drops any query or fragment so that the suffix of a URL
// path can be inspected.
func stripQuery(s string) string {
	uri, err := url.Parse(s)
	if err != nil || uri.Scheme == "" {
		return s
	}
	return uri.Path
}
