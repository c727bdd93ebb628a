package airutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/drone/envsubst"
)

// ExpandEnv substitutes ${VAR} style references in s using the
// process environment. If s cannot be parsed it is returned untouched.
func ExpandEnv(s string) string {
	val, err := envsubst.EvalEnv(s)
	if err != nil {
		return s
	}
	return val
}

// ExpandLocation expands environment variables and a leading "~/"
// in a repository location.
func ExpandLocation(s string) string {
	s = ExpandEnv(s)
	if rest, ok := strings.CutPrefix(s, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return s
		}
		return filepath.Join(home, rest)
	}
	return s
}
