package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/suparena/entityapi"
	"github.com/suparena/entityapi/scan"
)

var (
	versionFlag  = flag.Bool("version", false, "Show version information")
	vFlag        = flag.Bool("v", false, "Show version information (short)")
	manifestFlag = flag.String("manifest", "entityapi.yaml", "Path to the entity manifest")
	outFlag      = flag.String("out", "entityapi_gen.go", "Path of the generated registration file")
	strictFlag   = flag.Bool("strict", false, "Fail when the scan skips any manifest entry")
)

func main() {
	// Parse flags early to catch version flag
	flag.Parse()

	// Handle version flag
	if *versionFlag || *vFlag {
		info := entityapi.GetVersionInfo()
		fmt.Printf("EntityAPI entityapi-gen version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "entityapi-gen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	manifest, err := scan.LoadManifest(*manifestFlag)
	if err != nil {
		return err
	}

	result := scan.Scan(manifest.Index())
	for _, skip := range result.Skipped {
		fmt.Fprintf(os.Stderr, "entityapi-gen: skipping %s: %s\n", skip.Name, skip.Reason)
	}
	if *strictFlag {
		if err := result.Err(); err != nil {
			return err
		}
	}

	src, err := scan.GenerateRegistrations(manifest, result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*outFlag, src, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", *outFlag, err)
	}

	fmt.Printf("entityapi-gen: wrote %s (%d entities, %d skipped)\n",
		*outFlag, len(result.Matched), len(result.Skipped))
	return nil
}
