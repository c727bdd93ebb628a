package debian

import (
	"fmt"
	"slices"
	"strings"

	version "github.com/knqyf263/go-deb-version"
	"pault.ag/go/debian/control"
)

const (
	FieldPackage = "Package"
	FieldDepends = "Depends"
)

const (
	dependsDelim    = ","
	constraintStart = "("
)

// FindDependencies returns the direct dependency names of the first
// package in idx named name.
//
// An unknown package and a package without dependencies both produce an
// empty list. Use Index.Lookup to tell them apart.
func FindDependencies(idx *Index, name string) []string {
	record, ok := idx.Lookup(name)
	if !ok {
		return []string{}
	}
	return SplitDepends(record[FieldDepends])
}

// SplitDepends splits a comma-separated "Depends" value into package names,
// dropping any parenthesised version constraint.
//
// https://www.debian.org/doc/debian-policy/ch-relationships.html
func SplitDepends(s string) []string {
	out := []string{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, token := range strings.Split(s, dependsDelim) {
		name, _, _ := strings.Cut(strings.TrimSpace(token), constraintStart)
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Package decodes the record into its typed view.
func (r Record) Package() (Package, error) {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var pkg Package
	if err := control.UnpackFromParagraph(control.Paragraph{
		Values: r,
		Order:  keys,
	}, &pkg); err != nil {
		return Package{}, fmt.Errorf("decoding record: %w", err)
	}
	return pkg, nil
}

// ValidVersion reports whether the package carries a version that
// conforms to the Debian version format.
func (p *Package) ValidVersion() bool {
	if p.Version == "" {
		return false
	}
	_, err := version.NewVersion(p.Version)
	return err == nil
}

func (p *Package) String() string {
	if p.Version == "" {
		return p.Package
	}
	return p.Package + " " + p.Version
}
