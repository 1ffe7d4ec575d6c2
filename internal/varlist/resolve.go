package varlist

import (
	"github.com/MetOffice/dreqgen/internal/dreq"
	"github.com/MetOffice/dreqgen/internal/mappings"
)

// Resolve turns an experiment's tier lists into ordered entries. Core and
// High variables stay unannotated, Medium and Low are annotated with their
// priority. A key requested in several tiers keeps the highest one, Core
// over High over Medium over Low, and its first-occurrence position.
func Resolve(tiers dreq.TierLists) []Entry {
	seen := make(map[string]struct{})
	var entries []Entry
	add := func(keys []string, a Annotation) {
		for _, key := range keys {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			entries = append(entries, Entry{Key: key, Annotation: a})
		}
	}
	add(tiers.Core, None)
	add(tiers.High, None)
	add(tiers.Medium, PriorityMedium)
	add(tiers.Low, PriorityLow)
	return entries
}

// ApplyProductionStatus overlays the do-not-produce state from the mapping
// index onto resolved entries. It runs strictly after Resolve and
// overrides whatever tier annotation a key carries.
func ApplyProductionStatus(entries []Entry, idx *mappings.Index) {
	for i := range entries {
		if idx.DoNotProduce(entries[i].Key) {
			entries[i].Annotation = DoNotProduce
		}
	}
}
