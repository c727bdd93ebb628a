package debian

// Record is a single paragraph of a repository index, keyed by field name.
type Record map[string]string

type Index struct {
	records []Record
	source  string
}

// Package is a typed view of the commonly used fields of a Record.
type Package struct {
	Package      string
	Version      string
	Architecture string
	Depends      string
	Homepage     string
}
