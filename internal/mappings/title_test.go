package mappings

import (
	"errors"
	"testing"
)

func TestKeyFromTitle(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Mapping for Variable atmos.tas.tavg-h2m-hxy-u.mon.GLB", "atmos.tas.tavg-h2m-hxy-u.mon.GLB"},
		{"Mapping for Variable ocean.tos.tavg-u-hxy-sea.day.GLB (HadGEM3-GC5)", "ocean.tos.tavg-u-hxy-sea.day.GLB"},
		{"Variable atmos.pr.tavg-u-hxy-u.day.GLB extra words", "atmos.pr.tavg-u-hxy-u.day.GLB"},
		{"Variable   spaced.out.key.mon.GLB", "spaced.out.key.mon.GLB"},
	}
	for _, c := range cases {
		got, err := KeyFromTitle(c.title)
		if err != nil {
			t.Fatalf("KeyFromTitle(%q): %v", c.title, err)
		}
		if got != c.want {
			t.Fatalf("KeyFromTitle(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}

func TestKeyFromTitleNoKey(t *testing.T) {
	for _, title := range []string{
		"",
		"Mapping with no marker",
		"Variable(missing separator)",
	} {
		_, err := KeyFromTitle(title)
		if err == nil {
			t.Fatalf("KeyFromTitle(%q): expected error", title)
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("KeyFromTitle(%q): expected *ParseError, got %T", title, err)
		}
		if parseErr.Title != title {
			t.Fatalf("ParseError title = %q, want %q", parseErr.Title, title)
		}
	}
}
