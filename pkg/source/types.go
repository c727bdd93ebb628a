package source

import (
	"errors"
	"fmt"
	"net/http"
)

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
	ModeMock   Mode = "mock"
)

// Modes lists every supported Mode, in the order they are
// presented to users.
var Modes = []Mode{ModeLocal, ModeRemote, ModeMock}

var (
	ErrUnknownMode = errors.New("unknown mode")
	ErrInvalidURL  = errors.New("invalid url")
	ErrNotExist    = errors.New("file or directory not found")

	ErrFileAccess = errors.New("file access failed")
	ErrNetwork    = errors.New("network request failed")

	// ErrMockSource is returned when asked to fetch from a mock source,
	// which has no data behind it.
	ErrMockSource = errors.New("mock sources cannot be fetched")
)

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected one of %v)", ErrUnknownMode, s, Modes)
}

func (m Mode) String() string {
	return string(m)
}

// Fetcher retrieves the raw (decompressed) bytes of a repository index.
type Fetcher struct {
	client *http.Client
}
