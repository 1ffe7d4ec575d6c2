package varlist

import (
	"fmt"
	"strings"

	"github.com/MetOffice/dreqgen/internal/mappings"
)

// FormatError reports a variable key that does not follow the dotted
// data request shape. It aborts the experiment being generated, not the
// whole run.
type FormatError struct {
	Key string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("varlist: %s has unexpected format. Expected: realm.variable.branding.frequency.region", e.Key)
}

// Normalize rewrites each entry's dotted data request key,
// realm.variable.branding.frequency.region, into the canonical form
// consumed by the production workflow, realm/variable_branding@frequency,
// appending :stream when the mapping index knows the key's output stream.
// Segments beyond the fourth are ignored. Keys with fewer than four
// segments raise a FormatError. When two keys collapse to the same
// canonical name the first keeps its position and the last annotation
// wins.
func Normalize(entries []Entry, idx *mappings.Index) ([]Entry, error) {
	out := make([]Entry, 0, len(entries))
	pos := make(map[string]int, len(entries))
	for _, e := range entries {
		parts := strings.Split(e.Key, ".")
		if len(parts) < 4 {
			return nil, &FormatError{Key: e.Key}
		}
		canonical := fmt.Sprintf("%s/%s_%s@%s", parts[0], parts[1], parts[2], parts[3])
		if stream := idx.Stream(e.Key); stream != "" {
			canonical += ":" + stream
		}
		if at, ok := pos[canonical]; ok {
			out[at].Annotation = e.Annotation
			continue
		}
		pos[canonical] = len(out)
		out = append(out, Entry{Key: canonical, Annotation: e.Annotation})
	}
	return out, nil
}
