package cmd

import (
	"bytes"
	"fmt"
	"io"

	v1 "github.com/djcass44/debdeps/pkg/api/v1"
	"github.com/djcass44/debdeps/pkg/airutil"
	"github.com/djcass44/debdeps/pkg/debian"
	"github.com/djcass44/debdeps/pkg/source"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command, _ []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	query, err := resolveQuery(cmd)
	if err != nil {
		return err
	}
	mode, err := source.ParseMode(query.Spec.Mode)
	if err != nil {
		return &UsageError{Err: err}
	}
	name := query.Spec.PackageName
	location := airutil.ExpandLocation(query.Spec.RepoURL)

	log = log.WithValues("package", name, "mode", mode, "location", location)
	log.V(1).Info("resolved query", "output", query.Spec.Output)

	if query.Spec.Output != v1.OutputASCIITree {
		log.Info("output format is not supported yet, dependencies will be printed as a list", "output", query.Spec.Output)
	}

	if err := source.Validate(mode, location); err != nil {
		return &UsageError{Err: err}
	}

	// there's nothing behind a mock repository, so all we can
	// do is report what we were asked to do
	if mode == source.ModeMock {
		log.V(1).Info("skipping acquisition for mock repository")
		return printQuery(cmd.OutOrStdout(), query)
	}

	data, err := source.NewFetcher(nil).Fetch(cmd.Context(), mode, location)
	if err != nil {
		log.Error(err, "failed to retrieve repository index")
		return &UsageError{Err: err}
	}

	idx, err := debian.NewIndex(cmd.Context(), location, bytes.NewReader(data))
	if err != nil {
		return err
	}

	record, ok := idx.Lookup(name)
	if !ok {
		log.Info("package could not be found in the index", "count", idx.Count())
	} else if pkg, err := record.Package(); err == nil {
		log.V(1).Info("found package", "pkg", pkg.String(), "arch", pkg.Architecture, "validVersion", pkg.ValidVersion())
	}

	return printDependencies(cmd.OutOrStdout(), name, debian.FindDependencies(idx, name))
}

func printDependencies(w io.Writer, name string, deps []string) error {
	if len(deps) == 0 {
		_, err := fmt.Fprintf(w, "No dependencies found for %s\n", name)
		return err
	}
	if _, err := fmt.Fprintf(w, "Dependencies of %s:\n", name); err != nil {
		return err
	}
	for _, d := range deps {
		if _, err := fmt.Fprintf(w, "- %s\n", d); err != nil {
			return err
		}
	}
	return nil
}

// printQuery reports the query as it was given, before any expansion.
func printQuery(w io.Writer, query *v1.DependencyQuery) error {
	_, err := fmt.Fprintf(w, "package_name=%s\nrepo_url=%s\nmode=%s\noutput=%s\n",
		query.Spec.PackageName,
		query.Spec.RepoURL,
		query.Spec.Mode,
		query.Spec.Output,
	)
	return err
}
