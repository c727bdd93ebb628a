package v1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

const (
	APIVersion = "debdeps.dcas.dev/v1"
	Kind       = "DependencyQuery"
)

type OutputFormat string

const (
	OutputASCIITree OutputFormat = "ascii-tree"
	OutputJSON      OutputFormat = "json"
	OutputDot       OutputFormat = "dot"
)

var OutputFormats = []OutputFormat{OutputASCIITree, OutputJSON, OutputDot}

type QuerySpec struct {
	PackageName string       `json:"packageName,omitempty"`
	RepoURL     string       `json:"repoURL,omitempty"`
	Mode        string       `json:"mode,omitempty"`
	Output      OutputFormat `json:"output,omitempty"`
}

type DependencyQuery struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec QuerySpec `json:"spec"`
}
