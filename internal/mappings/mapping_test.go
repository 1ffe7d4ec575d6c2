package mappings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleMappings = `[
  {
    "title": "Mapping for Variable atmos.tas.tavg-h2m-hxy-u.mon.GLB",
    "labels": ["ready"],
    "STASH entries": [
      {
        "STASH": "m01s03i236",
        "domain_profile": "DIAG",
        "model": "HadGEM3-GC5",
        "stash_number": "03236",
        "time_profile": "TMONMN",
        "usage_profile": "UP4"
      }
    ],
    "XIOS entries": {"field_ref": "tas"},
    "issue_number": 123,
    "Data Request information": {
      "CF standard name": "air_temperature",
      "Frequency": "mon",
      "Units": "K"
    },
    "Mapping information": {
      "HadGEM3-GC5": "tas"
    }
  },
  {
    "title": "Mapping for Variable ocean.tos.tavg-u-hxy-sea.day.GLB (draft)",
    "labels": ["do-not-produce"],
    "STASH entries": []
  }
]`

func TestLoadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.json")
	if err := os.WriteFile(path, []byte(sampleMappings), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	first := records[0]
	if first.Title != "Mapping for Variable atmos.tas.tavg-h2m-hxy-u.mon.GLB" {
		t.Fatalf("unexpected title: %q", first.Title)
	}
	if len(first.StashEntries) != 1 || first.StashEntries[0].UsageProfile != "UP4" {
		t.Fatalf("unexpected STASH entries: %#v", first.StashEntries)
	}
	if first.DataRequest.CFStandardName != "air_temperature" {
		t.Fatalf("data request info not decoded: %#v", first.DataRequest)
	}
	if !records[1].HasLabel(DoNotProduceLabel) {
		t.Fatalf("second record should carry the do-not-produce label")
	}
}

func TestMinimise(t *testing.T) {
	records := []Record{
		{
			Title:        "Mapping for Variable a.b.c.d.e",
			Labels:       []string{"ready"},
			StashEntries: []StashEntry{{Stash: "m01s03i236", UsageProfile: "UP4"}},
			IssueNumber:  99,
			XIOSEntries:  map[string]any{"field_ref": "tas"},
		},
		{Title: "Mapping for Variable f.g.h.i.j"},
	}
	minimal := Minimise(records)
	if len(minimal) != 2 {
		t.Fatalf("expected 2 minimal records, got %d", len(minimal))
	}
	if minimal[0].Title != records[0].Title {
		t.Fatalf("title not preserved")
	}
	if minimal[1].Labels == nil || minimal[1].StashEntries == nil {
		t.Fatalf("nil slices must become empty slices")
	}

	content, err := json.Marshal(minimal)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(content)
	if strings.Contains(got, "issue_number") || strings.Contains(got, "XIOS") {
		t.Fatalf("minimal form must drop extra fields: %s", got)
	}
	if !strings.Contains(got, `"stash_entries"`) {
		t.Fatalf("minimal form must use the stash_entries key: %s", got)
	}
	if !strings.Contains(got, `"labels":[]`) {
		t.Fatalf("empty labels must serialise as []: %s", got)
	}
}
