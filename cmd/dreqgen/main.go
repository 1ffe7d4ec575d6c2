// cmd/dreqgen/main.go
//
// This is the entry point for variable list generation.
//
// Flow:
// 1. Load the project config, the data request export and the mappings
// 2. Run the generator across every experiment in the export
// 3. Render progress in a TUI when stdout is a terminal, plain text otherwise

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MetOffice/dreqgen/internal/config"
	"github.com/MetOffice/dreqgen/internal/dreq"
	"github.com/MetOffice/dreqgen/internal/logbook"
	"github.com/MetOffice/dreqgen/internal/mappings"
	"github.com/MetOffice/dreqgen/internal/tui"
	"github.com/MetOffice/dreqgen/internal/varlist"
)

func main() {
	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	experimentsPath := flag.String("experiments", "", "data request export JSON (overrides config)")
	mappingsPath := flag.String("mappings", "", "mappings JSON (overrides config)")
	outDir := flag.String("outdir", "", "output directory for variable lists (overrides config)")
	logPath := flag.String("log", "", "log file path (overrides config)")
	jobs := flag.Int("jobs", 0, "experiments generated in parallel (overrides config)")
	plain := flag.Bool("plain", false, "plain text output instead of the TUI")
	initProject := flag.Bool("init", false, "create the project layout and a default dreqgen.yaml, then exit")
	flag.Parse()

	project := *projectDir
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			die("determine working directory: %v", err)
		}
	}
	absoluteProject, err := filepath.Abs(project)
	if err != nil {
		die("resolve project dir: %v", err)
	}

	if *initProject {
		if err := config.Init(absoluteProject); err != nil {
			die("init project: %v", err)
		}
		fmt.Printf("Initialised dreqgen project in %s\n", absoluteProject)
		return
	}

	cfg, err := config.NewConfig(absoluteProject)
	if err != nil {
		die("load config: %v", err)
	}
	experiments := override(cfg.ExperimentsPath(), *experimentsPath)
	mappingsFile := override(cfg.MappingsPath(), *mappingsPath)
	out := override(cfg.VariablesDir(), *outDir)
	logFile := override(cfg.LogFilePath("dreqgen"), *logPath)
	parallel := cfg.MaxParallel()
	if *jobs > 0 {
		parallel = *jobs
	}

	dataset, err := dreq.Load(experiments)
	if err != nil {
		die("%v", err)
	}
	records, err := mappings.Load(mappingsFile)
	if err != nil {
		die("%v", err)
	}

	lb, err := logbook.Open(logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: cannot open log file: %v\n", err)
	}
	defer lb.Close()

	gen := &varlist.Generator{
		Dataset: dataset,
		Index:   mappings.BuildIndex(records),
		OutDir:  out,
		Jobs:    parallel,
		Log:     lb,
	}

	useTUI := !*plain && stdoutIsTerminal()
	var summary varlist.Summary
	if useTUI {
		summary, err = runWithView(gen, lb)
	} else {
		summary, err = gen.Run(context.Background(), nil)
	}
	if err != nil {
		die("%v", err)
	}
	if !useTUI {
		for _, f := range summary.Failed {
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", f.Experiment, f.Err)
		}
		fmt.Printf("SUCCESSFULLY GENERATED %d FILES\n", summary.Generated)
	}
	if len(summary.Failed) > 0 {
		os.Exit(1)
	}
}

// runWithView drives the generator under the bubbletea progress view. The
// event channel is buffered for the whole run so the generator never waits
// on the renderer; closing it hands the final summary over.
func runWithView(gen *varlist.Generator, lb *logbook.Logbook) (varlist.Summary, error) {
	total := len(gen.Dataset.ExperimentNames())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan varlist.Event, total+1)
	results := make(chan tui.RunResult, 1)
	go func() {
		summary, err := gen.Run(ctx, func(ev varlist.Event) { events <- ev })
		close(events)
		results <- tui.RunResult{Summary: summary, Err: err}
	}()

	view := tui.NewRunView(gen.Dataset.Header.ContentVersion, total, events, results, cancel, lb)
	if _, err := tea.NewProgram(view).Run(); err != nil {
		cancel()
		summary, runErr := view.Result()
		if runErr != nil {
			return summary, runErr
		}
		return summary, fmt.Errorf("render progress: %w", err)
	}
	return view.Result()
}

func override(base, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return base
}

func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
