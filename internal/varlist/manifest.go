package varlist

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func renderLine(e Entry) string {
	if e.Annotation == None {
		return e.Key + "\n"
	}
	return fmt.Sprintf("#%s # %s\n", e.Key, e.Annotation)
}

// ManifestContent renders entries into manifest bytes. Identical rendered
// lines collapse to one, keeping their first position, then lines are
// stable-sorted by annotation weight so active lines come first, followed
// by medium, low and do-not-produce. There is no secondary sort key; ties
// keep production order.
func ManifestContent(entries []Entry) string {
	type line struct {
		text   string
		weight int
	}
	seen := make(map[string]struct{}, len(entries))
	lines := make([]line, 0, len(entries))
	for _, e := range entries {
		text := renderLine(e)
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		lines = append(lines, line{text: text, weight: e.Annotation.Weight()})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].weight < lines[j].weight })
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.text)
	}
	return b.String()
}

// WriteManifest renders entries and fully replaces the file at path,
// creating parent directories as needed. It returns the number of lines
// written.
func WriteManifest(path string, entries []Entry) (int, error) {
	content := ManifestContent(entries)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("varlist: create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return 0, fmt.Errorf("varlist: write %s: %w", path, err)
	}
	return strings.Count(content, "\n"), nil
}
