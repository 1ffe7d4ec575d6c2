// cmd/metadata-validator/main.go
//
// Scans the workflow metadata files and validates their structure and
// contents against the validation rules.

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MetOffice/dreqgen/internal/config"
	"github.com/MetOffice/dreqgen/internal/logbook"
	"github.com/MetOffice/dreqgen/internal/metadata"
)

func main() {
	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	dir := flag.String("dir", "", "directory holding the .cfg files (overrides config)")
	rulesPath := flag.String("rules", "", "validation rules YAML (overrides config, empty means built-in rules)")
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
	cfg, err := config.NewConfig(absoluteProject)
	if err != nil {
		die("load config: %v", err)
	}

	metadataDir := cfg.MetadataDir()
	if *dir != "" {
		metadataDir = *dir
	}
	rulesFile := cfg.MetadataRulesPath()
	if *rulesPath != "" {
		rulesFile = *rulesPath
	}

	rules, err := metadata.LoadRules(rulesFile)
	if err != nil {
		die("%v", err)
	}

	lb, err := logbook.Open(cfg.LogFilePath("metadata-validator"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: cannot open log file: %v\n", err)
	}
	defer lb.Close()

	summary, err := metadata.ValidateDir(metadataDir, rules)
	if err != nil {
		die("%v", err)
	}

	for _, report := range summary.Reports {
		stem := strings.TrimSuffix(filepath.Base(report.File), ".cfg")
		fmt.Printf("\nChecking %s.cfg\n", stem)
		for _, warning := range report.Warnings {
			fmt.Println(warning)
		}
		if !report.Failures {
			fmt.Println("SUCCESS...")
		}
	}

	failed := summary.FailedFiles()
	lb.Info("validated %d metadata files, %d failed", summary.Checked(), len(failed))

	fmt.Println("\n==================================")
	fmt.Printf("SUCCESSFULLY VALIDATED: %d/%d\n", summary.Passed(), summary.Checked())
	fmt.Println("==================================")
	if len(failed) > 0 {
		fmt.Println("\n==================================")
		fmt.Printf("%d FAILED:\n", len(failed))
		for _, file := range failed {
			fmt.Printf("- %s\n", file)
		}
		fmt.Println("==================================")
		os.Exit(1)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
