package mappings

import (
	"fmt"
	"regexp"
)

// Mapping titles embed the variable key after the word "Variable", e.g.
// "Mapping for Variable atmos.tas.tavg-h2m-hxy-u.mon.GLB (HadGEM3)". The
// key is the first token after "Variable", ending at whitespace or an
// opening parenthesis.
var titleKeyPattern = regexp.MustCompile(`Variable\s+([^\s(]+)`)

// ParseError reports a mapping title no variable key could be extracted
// from. Records with such titles are skipped, never fatal.
type ParseError struct {
	Title string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mappings: no variable key in title %q", e.Title)
}

// KeyFromTitle extracts the variable key embedded in a mapping title.
func KeyFromTitle(title string) (string, error) {
	m := titleKeyPattern.FindStringSubmatch(title)
	if m == nil {
		return "", &ParseError{Title: title}
	}
	return m[1], nil
}
