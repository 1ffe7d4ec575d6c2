package mappings

import "strings"

// Label marking variables that must not be produced regardless of the
// priority tier that requested them.
const DoNotProduceLabel = "do-not-produce"

// Index is the read-only lookup structure the generator shares across
// experiments: production status and output stream per variable key. It is
// built once per run and never mutated afterwards.
type Index struct {
	doNotProduce map[string]struct{}
	streams      map[string]string
	skipped      []string
}

// BuildIndex derives the lookup index from the mapping records. Records
// whose title yields no variable key are skipped and remembered so the
// caller can report them; a bad title never aborts the build.
func BuildIndex(records []Record) *Index {
	idx := &Index{
		doNotProduce: make(map[string]struct{}),
		streams:      make(map[string]string),
	}
	for _, r := range records {
		key, err := KeyFromTitle(r.Title)
		if err != nil {
			idx.skipped = append(idx.skipped, r.Title)
			continue
		}
		if r.HasLabel(DoNotProduceLabel) {
			idx.doNotProduce[key] = struct{}{}
		}
		idx.streams[key] = streamName(r.StashEntries)
	}
	return idx
}

// DoNotProduce reports whether the key is labelled do-not-produce.
func (x *Index) DoNotProduce(key string) bool {
	_, ok := x.doNotProduce[key]
	return ok
}

// Stream returns the output stream for the key, or "" when the key is
// unknown or its mapping carries no stream.
func (x *Index) Stream(key string) string {
	return x.streams[key]
}

// Skipped returns the titles of records that contributed nothing to the
// index because no variable key could be extracted.
func (x *Index) Skipped() []string {
	return append([]string(nil), x.skipped...)
}

// streamName derives the output stream from the first STASH entry. Usage
// profiles name the upload stream (UP1, UPM, ...); the corresponding
// output stream swaps the leading UP for ap.
func streamName(entries []StashEntry) string {
	if len(entries) == 0 {
		return ""
	}
	profile := entries[0].UsageProfile
	if strings.HasPrefix(profile, "UP") {
		return "ap" + strings.TrimPrefix(profile, "UP")
	}
	return profile
}
