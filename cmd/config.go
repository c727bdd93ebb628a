package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	v1 "github.com/djcass44/debdeps/pkg/api/v1"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/yaml"
)

func readConfig(s string) (*v1.DependencyQuery, error) {
	f, err := os.Open(s)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var config v1.DependencyQuery
	if err := yaml.NewYAMLOrJSONDecoder(f, 4).Decode(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if config.APIVersion != "" && config.APIVersion != v1.APIVersion {
		return nil, fmt.Errorf("unexpected apiVersion %q, expected %q", config.APIVersion, v1.APIVersion)
	}
	if config.Kind != "" && config.Kind != v1.Kind {
		return nil, fmt.Errorf("unexpected kind %q, expected %q", config.Kind, v1.Kind)
	}
	return &config, nil
}

// resolveQuery merges the optional config file with any flags that were
// explicitly set on the command line. Flags always take precedence.
func resolveQuery(cmd *cobra.Command) (*v1.DependencyQuery, error) {
	query := &v1.DependencyQuery{}

	if configPath, _ := cmd.Flags().GetString(flagConfig); configPath != "" {
		cfg, err := readConfig(configPath)
		if err != nil {
			return nil, &UsageError{Err: fmt.Errorf("reading config %s: %w", configPath, err)}
		}
		query = cfg
	}

	override := func(name string, dst *string) {
		if f := cmd.Flags().Lookup(name); f != nil && (f.Changed || *dst == "") {
			*dst = f.Value.String()
		}
	}
	override(flagPackageName, &query.Spec.PackageName)
	override(flagRepoURL, &query.Spec.RepoURL)
	override(flagMode, &query.Spec.Mode)

	output := string(query.Spec.Output)
	override(flagOutput, &output)
	query.Spec.Output = v1.OutputFormat(output)

	var missing []string
	if query.Spec.PackageName == "" {
		missing = append(missing, flagPackageName)
	}
	if query.Spec.RepoURL == "" {
		missing = append(missing, flagRepoURL)
	}
	if query.Spec.Mode == "" {
		missing = append(missing, flagMode)
	}
	if len(missing) > 0 {
		return nil, &UsageError{Err: fmt.Errorf(`required flag(s) "%s" not set`, strings.Join(missing, `", "`))}
	}

	if !slices.Contains(v1.OutputFormats, query.Spec.Output) {
		return nil, &UsageError{Err: fmt.Errorf("invalid output %q (expected one of %s)", query.Spec.Output, joinValues(v1.OutputFormats))}
	}
	return query, nil
}
