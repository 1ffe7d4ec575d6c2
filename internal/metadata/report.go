package metadata

import "fmt"

// FileReport captures the findings for one metadata file. The category
// lists mirror the record the production tooling consumes; Warnings holds
// the human-readable lines in the order the checks ran.
type FileReport struct {
	File               string
	Failures           bool
	MissingSections    []string
	UnexpectedSections []string
	MissingKeys        []string
	UnexpectedKeys     []string
	MissingValues      []string
	UnexpectedValues   []string
	InvalidValues      []string
	Warnings           []string
}

func (r *FileReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
	r.Failures = true
}

// note records an indented detail line under the preceding warning
// without flipping the failure flag again.
func (r *FileReport) note(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Summary aggregates a validation run over a set of metadata files.
type Summary struct {
	Reports []FileReport
}

// Checked returns the number of files that were validated.
func (s Summary) Checked() int { return len(s.Reports) }

// Passed returns the number of files without failures.
func (s Summary) Passed() int {
	n := 0
	for _, r := range s.Reports {
		if !r.Failures {
			n++
		}
	}
	return n
}

// FailedFiles lists the files that failed validation, in run order.
func (s Summary) FailedFiles() []string {
	var files []string
	for _, r := range s.Reports {
		if r.Failures {
			files = append(files, r.File)
		}
	}
	return files
}
