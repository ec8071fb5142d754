// Package preflight verifies that a provisioned installation is actually
// runnable: directories, env file, interpreter, venv, catalogs, database.
package preflight

import (
	"context"

	"botstrap/internal/workspace"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for the installation at base.
func RunAll(ctx context.Context, base string) []Result {
	layout := workspace.New(base)

	results := []Result{
		CheckDirectoryAccess("Base directory", layout.Base),
	}
	for _, dir := range layout.Dirs() {
		results = append(results, CheckDirectoryAccess("Directory "+dir, dir))
	}

	results = append(results,
		CheckEnvFile(base),
		CheckPython(ctx),
		CheckVenv(layout),
		CheckLanguageCatalogs(layout),
		CheckDatabase(layout),
	)
	return results
}

// Failed filters results down to the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
