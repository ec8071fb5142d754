package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"botstrap/internal/config"
	"botstrap/internal/envprobe"
	"botstrap/internal/language"
	"botstrap/internal/venv"
	"botstrap/internal/workspace"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckEnvFile verifies the .env file exists and passes the bot's validation.
func CheckEnvFile(base string) Result {
	const name = "Environment file"
	cfg, exists, err := config.Load(base)
	if !exists {
		return Result{Name: name, Detail: ".env missing (run `botstrap config init`)"}
	}
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("valid (owner %d, quality %s)", cfg.OwnerID, cfg.DefaultQuality)}
}

// CheckPython verifies a supported interpreter is on PATH.
func CheckPython(ctx context.Context) Result {
	const name = "Python interpreter"
	status := envprobe.ProbePython(ctx, "")
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	return Result{Name: name, Passed: true, Detail: status.Detail}
}

// CheckVenv verifies the virtual environment was created and carries pip.
func CheckVenv(layout workspace.Layout) Result {
	const name = "Virtual environment"
	manager := venv.New(layout.VenvDir(), "")
	if !manager.Exists() {
		return Result{Name: name, Detail: fmt.Sprintf("missing at %s (run `botstrap venv create`)", layout.VenvDir())}
	}
	if _, err := os.Stat(manager.PipBinary()); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("pip missing at %s", manager.PipBinary())}
	}
	return Result{Name: name, Passed: true, Detail: layout.VenvDir()}
}

// CheckLanguageCatalogs verifies the shipped catalogs load and the fallback
// language is present.
func CheckLanguageCatalogs(layout workspace.Layout) Result {
	const name = "Language catalogs"
	set, err := language.LoadDir(layout.Languages(), "en")
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: strings.Join(set.Codes(), ", ")}
}

// CheckDatabase verifies the bot database was initialized.
func CheckDatabase(layout workspace.Layout) Result {
	const name = "Database"
	info, err := os.Stat(layout.DatabaseFile())
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("missing at %s (run `botstrap db init`)", layout.DatabaseFile())}
		}
		return Result{Name: name, Detail: fmt.Sprintf("stat: %v", err)}
	}
	if info.Size() == 0 {
		return Result{Name: name, Detail: "database file is empty"}
	}
	return Result{Name: name, Passed: true, Detail: layout.DatabaseFile()}
}
