package metadata

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadRulesBuiltIn(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if got := rules.SectionNames(); !reflect.DeepEqual(got, []string{"data", "metadata", "misc"}) {
		t.Fatalf("SectionNames = %v", got)
	}
	if !rules.IsRequired("experiment_id") {
		t.Fatalf("experiment_id should be required")
	}
	if rules.IsRequired("parent_experiment_id") {
		t.Fatalf("parent fields are only conditionally required")
	}
	if !rules.datetime.MatchString("1850-01-01") {
		t.Fatalf("datetime pattern rejects plain date")
	}
	if rules.datetime.MatchString("1850-01-01 extra") {
		t.Fatalf("datetime pattern must match the whole value")
	}
	if !rules.workflow.MatchString("u-ab123") || rules.workflow.MatchString("ab123") {
		t.Fatalf("workflow pattern broken")
	}
	if !rules.variant.MatchString("r1i1p1f1") || rules.variant.MatchString("r1i1p1") {
		t.Fatalf("variant pattern broken")
	}
}

func TestLoadRulesOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	custom := `sections:
  metadata:
    - experiment_id
required:
  - experiment_id
patterns:
  datetime: '\d{8}'
  model_workflow_id: '\w+'
  variant_label: '\w+'
`
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if got := rules.SectionNames(); !reflect.DeepEqual(got, []string{"metadata"}) {
		t.Fatalf("SectionNames = %v", got)
	}
	if !rules.datetime.MatchString("18500101") {
		t.Fatalf("override datetime pattern not applied")
	}
}

func TestLoadRulesRejectsEmptyPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	custom := `sections:
  metadata: [experiment_id]
patterns:
  datetime: '\d{8}'
`
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Fatalf("expected error for missing patterns")
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing rules file")
	}
}
