// cmd/mappings-minimiser/main.go
//
// Converts a full mappings.json into the minimal dataset the other tools
// need, to save on repository storage.

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MetOffice/dreqgen/internal/config"
	"github.com/MetOffice/dreqgen/internal/mappings"
	"github.com/MetOffice/dreqgen/internal/source"
)

func main() {
	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	outPath := flag.String("out", "", "output path for the minimal dataset (overrides config)")
	flag.Parse()

	if flag.NArg() != 1 {
		die("usage: mappings-minimiser [flags] <mappings.json>")
	}
	mappingsFile := flag.Arg(0)

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

	out := cfg.MinimalMappingsPath()
	if *outPath != "" {
		out = *outPath
	}

	records, err := mappings.Load(mappingsFile)
	if err != nil {
		die("%v", err)
	}
	minimal := mappings.Minimise(records)
	if err := source.WriteJSON(out, minimal); err != nil {
		die("%v", err)
	}
	fmt.Printf("Minimised %d mappings to %s\n", len(minimal), out)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
