// Package dreq models the data request export consumed by the variable
// list generator: a header describing the request content plus, per
// experiment, the variable keys grouped by priority tier.
package dreq

import (
	"fmt"
	"sort"

	"github.com/MetOffice/dreqgen/internal/source"
)

// Header carries the provenance block of a data request export. Only
// ContentVersion participates in generation (it names the output
// directory); the remaining fields are informational.
type Header struct {
	Description         string   `json:"Description"`
	Opportunities       []string `json:"Opportunities supported"`
	PriorityLevels      []string `json:"Priority levels supported"`
	ExperimentsIncluded []string `json:"Experiments included"`
	ContentVersion      string   `json:"dreq content version"`
	ContentFile         string   `json:"dreq content file"`
	ContentSHA256       string   `json:"dreq content sha256 hash"`
	APIVersion          string   `json:"dreq api version"`
}

// TierLists holds the requested variable keys for one experiment, grouped
// by priority tier. Absent tiers decode as nil and are treated as empty.
type TierLists struct {
	Core   []string `json:"Core"`
	High   []string `json:"High"`
	Medium []string `json:"Medium"`
	Low    []string `json:"Low"`
}

// Dataset is a decoded data request export.
type Dataset struct {
	Header      Header               `json:"Header"`
	Experiments map[string]TierLists `json:"experiment"`
}

// Load reads and validates a data request export. Read and decode
// failures surface as *source.LoadError; structural problems are fatal
// before any manifest is written.
func Load(path string) (Dataset, error) {
	var ds Dataset
	if err := source.ReadJSON(path, &ds); err != nil {
		return Dataset{}, err
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, fmt.Errorf("dreq: %s: %w", path, err)
	}
	return ds, nil
}

// Validate checks the fields generation depends on.
func (d Dataset) Validate() error {
	if d.Header.ContentVersion == "" {
		return fmt.Errorf("header is missing \"dreq content version\"")
	}
	if d.Experiments == nil {
		return fmt.Errorf("no \"experiment\" mapping present")
	}
	return nil
}

// ExperimentNames returns the experiment names in lexicographic order so
// runs process and report experiments deterministically.
func (d Dataset) ExperimentNames() []string {
	names := make([]string, 0, len(d.Experiments))
	for name := range d.Experiments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
