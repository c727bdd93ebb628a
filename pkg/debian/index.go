package debian

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
)

const (
	paragraphDelim = "\n\n"
	lineDelim      = "\n"
	fieldDelim     = ":"
)

// NewIndex reads an entire repository index from r and parses it.
// The source is only used for logging and is returned by Index.Source.
func NewIndex(ctx context.Context, source string, r io.Reader) (*Index, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("source", source)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	log.V(2).Info("read index", "bytes", len(data))

	idx := Parse(string(data))
	idx.source = source
	log.V(1).Info("successfully decoded index", "count", idx.Count())
	return &idx, nil
}

// Parse splits text into paragraphs separated by a blank line and
// converts each one into a Record.
//
// Parse never fails. Lines without a colon are dropped, and a paragraph
// made up entirely of such lines still produces an (empty) Record.
func Parse(text string) Index {
	var out []Record
	for _, paragraph := range strings.Split(text, paragraphDelim) {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		out = append(out, parseParagraph(paragraph))
	}
	return Index{records: out}
}

func parseParagraph(s string) Record {
	record := Record{}
	for _, line := range strings.Split(s, lineDelim) {
		// only the first colon separates the key, so that
		// values such as URLs survive
		key, value, ok := strings.Cut(line, fieldDelim)
		if !ok {
			continue
		}
		record[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return record
}

func (idx *Index) Count() int {
	return len(idx.records)
}

func (idx *Index) Source() string {
	return idx.source
}

// Records returns the parsed records in index order.
func (idx *Index) Records() []Record {
	return idx.records
}

// Lookup returns the first record whose "Package" field is exactly name.
func (idx *Index) Lookup(name string) (Record, bool) {
	for _, r := range idx.records {
		if r[FieldPackage] == name {
			return r, true
		}
	}
	return nil, false
}
