// Package mappings models the variable mapping dataset: one record per
// supported variable, carrying the labels and STASH entries the generator
// consults, plus the read-only index built from them.
package mappings

import (
	"github.com/MetOffice/dreqgen/internal/source"
)

// StashEntry describes one STASH diagnostic backing a variable.
type StashEntry struct {
	Stash         string `json:"STASH"`
	DomainProfile string `json:"domain_profile"`
	Model         string `json:"model"`
	StashNumber   string `json:"stash_number"`
	TimeProfile   string `json:"time_profile"`
	UsageProfile  string `json:"usage_profile"`
}

// DataRequestInfo is the data request description attached to a mapping.
type DataRequestInfo struct {
	BrandedVariableName string `json:"Branded variable name"`
	CFStandardName      string `json:"CF standard name"`
	CMIP6Differences    string `json:"CMIP6 Differences"`
	CellMeasures        string `json:"Cell measures"`
	CellMethods         string `json:"Cell methods"`
	Comment             string `json:"Comment"`
	Dimensions          string `json:"Dimensions"`
	Frequency           string `json:"Frequency"`
	LongName            string `json:"Long name"`
	ModelingRealm       string `json:"Modeling realm"`
	Positive            string `json:"Positive"`
	ProcessingNotes     string `json:"Processing notes"`
	Region              string `json:"Region"`
	Units               string `json:"Units"`
	VariableStatus      string `json:"Variable status"`
}

// Record is one entry of the mapping dataset. Every field is optional in
// the source data; the pipeline only depends on Title, Labels and
// StashEntries.
type Record struct {
	Title        string            `json:"title"`
	Labels       []string          `json:"labels"`
	StashEntries []StashEntry      `json:"STASH entries"`
	XIOSEntries  map[string]any    `json:"XIOS entries,omitempty"`
	IssueNumber  int               `json:"issue_number,omitempty"`
	DataRequest  DataRequestInfo   `json:"Data Request information,omitempty"`
	Expressions  map[string]string `json:"Mapping information,omitempty"`
}

// HasLabel reports whether the record carries the given label.
func (r Record) HasLabel(label string) bool {
	for _, l := range r.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Load reads the mapping dataset from path. Failures surface as
// *source.LoadError.
func Load(path string) ([]Record, error) {
	var records []Record
	if err := source.ReadJSON(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Minimal is the projection of a Record kept by the minimised dataset:
// just the fields the generation pipeline reads.
type Minimal struct {
	Title        string       `json:"title"`
	Labels       []string     `json:"labels"`
	StashEntries []StashEntry `json:"stash_entries"`
}

// Minimise projects records down to their Minimal form, preserving order.
// Nil slices become empty ones so the output serialises as [] rather than
// null.
func Minimise(records []Record) []Minimal {
	out := make([]Minimal, 0, len(records))
	for _, r := range records {
		m := Minimal{Title: r.Title, Labels: r.Labels, StashEntries: r.StashEntries}
		if m.Labels == nil {
			m.Labels = []string{}
		}
		if m.StashEntries == nil {
			m.StashEntries = []StashEntry{}
		}
		out = append(out, m)
	}
	return out
}
