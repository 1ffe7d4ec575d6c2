package metadata

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const noResponse = "_No response_"

// Branch dates are only datetime-checked when the file declares a
// standard branch method; with "no parent" they are legitimately empty.
const (
	branchDateInChild  = "branch_date_in_child"
	branchDateInParent = "branch_date_in_parent"
)

// Metadata files keep configparser conventions: an inline # or ; is
// part of the value, keys compare lower-cased and indented
// continuation lines extend the previous value.
var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:        true,
	InsensitiveKeys:            true,
	AllowPythonMultilineValues: true,
}

// ValidateFile checks a single .cfg file against the rules. Every finding
// is recorded on the report; an unreadable or unparseable file is itself
// a failure.
func ValidateFile(path string, rules *Rules) FileReport {
	report := FileReport{File: path}
	cfg, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		report.warnf("--> WARNING: cannot parse file: %v", err)
		return report
	}
	sections := fileSections(cfg)
	validateStructure(&report, rules, sections)
	validateRequiredFields(&report, rules, sections)
	validateFieldInputs(&report, rules, sections)
	return report
}

// ValidateDir validates every .cfg file directly under dir, in
// lexicographic order. Each file is parsed afresh so findings never leak
// between files.
func ValidateDir(dir string, rules *Rules) (Summary, error) {
	pattern := filepath.Join(dir, "*.cfg")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return Summary{}, fmt.Errorf("metadata: scan %s: %w", pattern, err)
	}
	var summary Summary
	for _, file := range files {
		summary.Reports = append(summary.Reports, ValidateFile(file, rules))
	}
	return summary, nil
}

// fileSections returns the real sections of the file in order, skipping
// the synthetic DEFAULT section ini creates.
func fileSections(cfg *ini.File) []*ini.Section {
	var sections []*ini.Section
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		sections = append(sections, sec)
	}
	return sections
}

func validateStructure(report *FileReport, rules *Rules, sections []*ini.Section) {
	present := make(map[string]struct{}, len(sections))
	for _, sec := range sections {
		present[sec.Name()] = struct{}{}
	}

	var missing []string
	for _, name := range rules.SectionNames() {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	var unexpected []string
	for _, sec := range sections {
		if _, ok := rules.Sections[sec.Name()]; !ok {
			unexpected = append(unexpected, sec.Name())
		}
	}
	if len(missing) > 0 || len(unexpected) > 0 {
		report.warnf("--> WARNING: File does not contain the required sections.")
		if len(unexpected) > 0 {
			report.note("    --> UNEXPECTED SECTIONS: [%s]", strings.Join(unexpected, ", "))
			report.UnexpectedSections = unexpected
		}
		if len(missing) > 0 {
			report.note("    --> MISSING SECTIONS: [%s]", strings.Join(missing, ", "))
			report.MissingSections = missing
		}
	}
	missingSet := make(map[string]struct{}, len(missing))
	for _, name := range missing {
		missingSet[name] = struct{}{}
	}

	for _, name := range rules.SectionNames() {
		target := rules.Sections[name]
		targetSet := make(map[string]struct{}, len(target))
		for _, key := range target {
			targetSet[key] = struct{}{}
		}

		var keys []string
		if sec, err := findSection(sections, name); err == nil {
			keys = sec.KeyStrings()
		}
		keySet := make(map[string]struct{}, len(keys))
		for _, key := range keys {
			keySet[key] = struct{}{}
		}

		var missingKeys []string
		for _, key := range target {
			if _, ok := keySet[key]; !ok {
				missingKeys = append(missingKeys, key)
			}
		}
		var unexpectedKeys []string
		if _, sectionMissing := missingSet[name]; !sectionMissing {
			for _, key := range keys {
				if _, ok := targetSet[key]; !ok {
					unexpectedKeys = append(unexpectedKeys, key)
				}
			}
		}
		if len(missingKeys) > 0 || len(unexpectedKeys) > 0 {
			report.warnf("--> WARNING: [%s] does not contain the required keys.", name)
			if len(missingKeys) > 0 {
				report.note("    --> MISSING KEYS: [%s]", strings.Join(missingKeys, ", "))
				report.MissingKeys = append(report.MissingKeys, missingKeys...)
			}
			if len(unexpectedKeys) > 0 {
				report.note("    --> UNEXPECTED KEYS: [%s]", strings.Join(unexpectedKeys, ", "))
				report.UnexpectedKeys = append(report.UnexpectedKeys, unexpectedKeys...)
			}
		}
	}
}

func validateRequiredFields(report *FileReport, rules *Rules, sections []*ini.Section) {
	for _, sec := range sections {
		for _, key := range sec.Keys() {
			name, value := key.Name(), key.Value()
			if rules.IsRequired(name) && value == "" {
				report.warnf("--> WARNING: %s is a required field and cannot be empty.", name)
				report.MissingValues = append(report.MissingValues, name)
			}

			if name == "branch_method" {
				switch value {
				case "standard":
					for _, parentKey := range rules.ParentRequired {
						if v, ok := sectionValue(sec, parentKey); !ok || v == "" {
							report.warnf("--> WARNING: %s is a required field and cannot be empty.", parentKey)
							report.MissingValues = append(report.MissingValues, parentKey)
						}
					}
				case "no parent":
					for _, parentKey := range rules.ParentRequired {
						if v, ok := sectionValue(sec, parentKey); ok && v != "" {
							report.warnf("--> WARNING: %s is not required when using 'no parent' branch method.", parentKey)
							report.UnexpectedValues = append(report.UnexpectedValues, parentKey)
						}
					}
				}
			}

			if name == "mass_data_class" {
				member, ok := sectionValue(sec, "mass_ensemble_member")
				if value == "ens" && (!ok || member == "") {
					report.warnf("--> WARNING: mass_ensemble_member is a required field and cannot be empty.")
					report.MissingValues = append(report.MissingValues, "mass_ensemble_member")
				}
				if value == "crum" && ok && member != "" {
					report.warnf("--> WARNING: mass_ensemble_member is not needed when using 'crum' mass data class.")
					report.UnexpectedValues = append(report.UnexpectedValues, "mass_ensemble_member")
				}
			}
		}
	}
}

func validateFieldInputs(report *FileReport, rules *Rules, sections []*ini.Section) {
	datetimeFields := make(map[string]struct{}, len(rules.DatetimeFields)+2)
	for _, name := range rules.DatetimeFields {
		datetimeFields[name] = struct{}{}
	}
	if branchMethod(sections) == "standard" {
		datetimeFields[branchDateInChild] = struct{}{}
		datetimeFields[branchDateInParent] = struct{}{}
	}

	for _, sec := range sections {
		for _, key := range sec.Keys() {
			name, value := key.Name(), key.Value()
			if _, ok := datetimeFields[name]; ok && !rules.datetime.MatchString(value) {
				report.warnf("--> WARNING: %s is an invalid datetime format.", name)
				report.InvalidValues = append(report.InvalidValues, name)
			}
			if name == "model_workflow_id" && !rules.workflow.MatchString(value) {
				report.warnf("--> WARNING: %s is incorrectly formatted.", name)
				report.InvalidValues = append(report.InvalidValues, name)
			}
			if name == "variant_label" && !rules.variant.MatchString(value) {
				report.warnf("--> WARNING: %s is incorrectly formatted.", name)
				report.InvalidValues = append(report.InvalidValues, name)
			}
			if name == "atmos_timestep" && !digitsOnly(value) {
				report.warnf("--> WARNING: %s is invalid.", name)
				report.InvalidValues = append(report.InvalidValues, name)
			}
			if value == noResponse {
				report.warnf("--> WARNING: %s contains invalid entry ('_No response_').", name)
				report.InvalidValues = append(report.InvalidValues, name)
			}
		}
	}
}

// branchMethod returns the branch_method value declared anywhere in the
// file, or "" when absent.
func branchMethod(sections []*ini.Section) string {
	for _, sec := range sections {
		if v, ok := sectionValue(sec, "branch_method"); ok {
			return v
		}
	}
	return ""
}

func findSection(sections []*ini.Section, name string) (*ini.Section, error) {
	for _, sec := range sections {
		if sec.Name() == name {
			return sec, nil
		}
	}
	return nil, fmt.Errorf("metadata: no section %s", name)
}

// sectionValue looks a key up without creating it.
func sectionValue(sec *ini.Section, name string) (string, bool) {
	key, err := sec.GetKey(name)
	if err != nil {
		return "", false
	}
	return key.Value(), true
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
