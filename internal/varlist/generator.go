// Package varlist generates the per-experiment variable list manifests
// consumed by the production workflow: one plain text file per experiment
// under variables/<dreq content version>/, with priority and production
// status recorded as comment annotations.
package varlist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MetOffice/dreqgen/internal/dreq"
	"github.com/MetOffice/dreqgen/internal/logbook"
	"github.com/MetOffice/dreqgen/internal/mappings"
)

// Event reports the completion of one experiment during a run.
type Event struct {
	Experiment string
	Done       int
	Total      int
	Lines      int
	Err        error
}

// Failure pairs a failed experiment with its cause.
type Failure struct {
	Experiment string
	Err        error
}

// Summary describes a finished run.
type Summary struct {
	Version   string
	OutDir    string
	Total     int
	Generated int
	Failed    []Failure
}

// Generator drives manifest generation across every experiment in a data
// request export. The mapping index is shared read-only between
// experiments, so they can run concurrently when Jobs allows it.
type Generator struct {
	Dataset dreq.Dataset
	Index   *mappings.Index
	OutDir  string
	Jobs    int
	Log     *logbook.Logbook
}

// Run generates all manifests. A failing experiment is recorded in the
// summary and never stops the others; Run itself only fails when the
// output directory cannot be created or ctx is cancelled. The report
// callback, when non-nil, is invoked once per completed experiment in
// completion order.
func (g *Generator) Run(ctx context.Context, report func(Event)) (Summary, error) {
	names := g.Dataset.ExperimentNames()
	version := g.Dataset.Header.ContentVersion
	versionDir := filepath.Join(g.OutDir, version)
	summary := Summary{Version: version, OutDir: versionDir, Total: len(names)}

	if err := os.MkdirAll(versionDir, 0o755); err != nil {
		return summary, fmt.Errorf("varlist: create %s: %w", versionDir, err)
	}

	for _, title := range g.Index.Skipped() {
		g.Log.Warn("no variable key in mapping title %q", title)
	}
	g.Log.Info("generating %d variable lists for %s", len(names), version)

	jobs := g.Jobs
	if jobs < 1 {
		jobs = 1
	}

	var (
		mu   sync.Mutex
		done int
		grp  errgroup.Group
	)
	grp.SetLimit(jobs)
	for _, name := range names {
		name := name
		grp.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			lines, err := g.generateExperiment(name)

			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				summary.Failed = append(summary.Failed, Failure{Experiment: name, Err: err})
				g.Log.Error("%s: %v", name, err)
			} else {
				summary.Generated++
				g.Log.Info("generated %s.txt (%d lines)", name, lines)
			}
			if report != nil {
				report(Event{Experiment: name, Done: done, Total: len(names), Lines: lines, Err: err})
			}
			return nil
		})
	}
	_ = grp.Wait()

	sort.Slice(summary.Failed, func(i, j int) bool {
		return summary.Failed[i].Experiment < summary.Failed[j].Experiment
	})

	if err := ctx.Err(); err != nil {
		g.Log.Error("run aborted: %v", err)
		return summary, fmt.Errorf("varlist: run aborted: %w", err)
	}
	g.Log.Info("run complete: %d generated, %d failed", summary.Generated, len(summary.Failed))
	return summary, nil
}

func (g *Generator) generateExperiment(name string) (int, error) {
	entries := Resolve(g.Dataset.Experiments[name])
	ApplyProductionStatus(entries, g.Index)
	entries, err := Normalize(entries, g.Index)
	if err != nil {
		return 0, err
	}
	path := filepath.Join(g.OutDir, g.Dataset.Header.ContentVersion, name+".txt")
	return WriteManifest(path, entries)
}
