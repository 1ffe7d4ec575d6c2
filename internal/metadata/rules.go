// Package metadata validates the workflow metadata .cfg files that
// accompany a production run: section layout, per-section keys, required
// values and field formats. The rule set is built once at startup and
// never mutated while files are being checked.
package metadata

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// defaultRulesYAML is the rule set shipped with the tool. Deployments
// with diverging metadata conventions can override it with an external
// rules file.
const defaultRulesYAML = `sections:
  metadata:
    - base_date
    - branch_date_in_child
    - branch_date_in_parent
    - branch_method
    - calendar
    - experiment_id
    - institution_id
    - license
    - mip
    - mip_era
    - model_id
    - model_type
    - parent_base_date
    - parent_experiment_id
    - parent_mip
    - parent_mip_era
    - parent_model_id
    - parent_time_units
    - parent_variant_label
    - sub_experiment_id
    - variant_label
  data:
    - end_date
    - mass_data_class
    - mass_ensemble_member
    - model_workflow_id
    - start_date
    - streams
  misc:
    - atmos_timestep
required:
  - base_date
  - branch_method
  - calendar
  - experiment_id
  - institution_id
  - license
  - mip
  - mip_era
  - model_id
  - model_type
  - sub_experiment_id
  - variant_label
  - end_date
  - mass_data_class
  - model_workflow_id
  - start_date
  - streams
  - atmos_timestep
parent_required:
  - branch_date_in_child
  - branch_date_in_parent
  - parent_base_date
  - parent_experiment_id
  - parent_mip
  - parent_mip_era
  - parent_model_id
  - parent_time_units
  - parent_variant_label
datetime_fields:
  - base_date
  - start_date
  - end_date
patterns:
  datetime: '\d{4}-\d{2}-\d{2}(?:T\d{2}:\d{2}:\d{2}Z?)?'
  model_workflow_id: 'u-[a-z]{2}\d{3}'
  variant_label: 'r\d+i\d+p\d+f\d+'
`

// Rules describes what a valid workflow metadata file looks like.
type Rules struct {
	Sections       map[string][]string `yaml:"sections"`
	Required       []string            `yaml:"required"`
	ParentRequired []string            `yaml:"parent_required"`
	DatetimeFields []string            `yaml:"datetime_fields"`
	Patterns       struct {
		Datetime        string `yaml:"datetime"`
		ModelWorkflowID string `yaml:"model_workflow_id"`
		VariantLabel    string `yaml:"variant_label"`
	} `yaml:"patterns"`

	required map[string]struct{}
	datetime *regexp.Regexp
	workflow *regexp.Regexp
	variant  *regexp.Regexp
}

// LoadRules reads a rule set from path, or returns the built-in rules
// when path is empty.
func LoadRules(path string) (*Rules, error) {
	raw := []byte(defaultRulesYAML)
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("metadata: read rules %s: %w", path, err)
		}
		raw = content
	}
	var r Rules
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("metadata: decode rules: %w", err)
	}
	if err := r.compile(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Rules) compile() error {
	if len(r.Sections) == 0 {
		return fmt.Errorf("metadata: rules define no sections")
	}
	r.required = make(map[string]struct{}, len(r.Required))
	for _, key := range r.Required {
		r.required[key] = struct{}{}
	}
	var err error
	if r.datetime, err = compileFull(r.Patterns.Datetime); err != nil {
		return fmt.Errorf("metadata: datetime pattern: %w", err)
	}
	if r.workflow, err = compileFull(r.Patterns.ModelWorkflowID); err != nil {
		return fmt.Errorf("metadata: model_workflow_id pattern: %w", err)
	}
	if r.variant, err = compileFull(r.Patterns.VariantLabel); err != nil {
		return fmt.Errorf("metadata: variant_label pattern: %w", err)
	}
	return nil
}

// compileFull anchors pat so it must match the whole value.
func compileFull(pat string) (*regexp.Regexp, error) {
	if pat == "" {
		return nil, fmt.Errorf("pattern is empty")
	}
	return regexp.Compile("^(?:" + pat + ")$")
}

// SectionNames returns the expected section names in sorted order.
func (r *Rules) SectionNames() []string {
	names := make([]string, 0, len(r.Sections))
	for name := range r.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRequired reports whether key must always carry a value.
func (r *Rules) IsRequired(key string) bool {
	_, ok := r.required[key]
	return ok
}
