package envprobe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Minimum interpreter version the bot runtime supports.
const (
	MinPythonMajor = 3
	MinPythonMinor = 8
)

// PythonVersion holds a parsed interpreter version.
type PythonVersion struct {
	Major int
	Minor int
	Patch int
}

func (v PythonVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Supported reports whether the version meets the minimum the bot requires.
func (v PythonVersion) Supported() bool {
	if v.Major != MinPythonMajor {
		return v.Major > MinPythonMajor
	}
	return v.Minor >= MinPythonMinor
}

// ProbePython locates the interpreter and gates on its version. An empty
// binary probes python3.
func ProbePython(ctx context.Context, binary string) Status {
	if strings.TrimSpace(binary) == "" {
		binary = "python3"
	}
	status := Status{
		Name:        "Python",
		Command:     binary,
		Description: "Runs the bot and creates the virtual environment",
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", binary)
		return status
	}
	status.Command = resolved

	version, err := queryPythonVersion(ctx, resolved)
	if err != nil {
		status.Detail = fmt.Sprintf("version probe failed: %v", err)
		return status
	}
	if !version.Supported() {
		status.Detail = fmt.Sprintf("found %s, need %d.%d or newer", version, MinPythonMajor, MinPythonMinor)
		return status
	}

	status.Available = true
	status.Detail = version.String()
	return status
}

func queryPythonVersion(ctx context.Context, binary string) (PythonVersion, error) {
	cmd := exec.CommandContext(ctx, binary, "--version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out // Python 2 prints the version to stderr.
	if err := cmd.Run(); err != nil {
		return PythonVersion{}, fmt.Errorf("run %s --version: %w", binary, err)
	}
	return ParsePythonVersion(out.String())
}

// ParsePythonVersion extracts a version from "Python X.Y.Z" output.
func ParsePythonVersion(output string) (PythonVersion, error) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) < 2 || !strings.EqualFold(fields[0], "python") {
		return PythonVersion{}, fmt.Errorf("unexpected version output %q", strings.TrimSpace(output))
	}
	parts := strings.SplitN(fields[1], ".", 3)
	if len(parts) < 2 {
		return PythonVersion{}, fmt.Errorf("unexpected version string %q", fields[1])
	}

	var version PythonVersion
	var err error
	if version.Major, err = strconv.Atoi(parts[0]); err != nil {
		return PythonVersion{}, fmt.Errorf("parse major version %q: %w", parts[0], err)
	}
	if version.Minor, err = strconv.Atoi(parts[1]); err != nil {
		return PythonVersion{}, fmt.Errorf("parse minor version %q: %w", parts[1], err)
	}
	if len(parts) == 3 {
		// Patch may carry suffixes like "0b1"; keep the leading digits.
		digits := parts[2]
		for i, r := range digits {
			if r < '0' || r > '9' {
				digits = digits[:i]
				break
			}
		}
		if digits != "" {
			if version.Patch, err = strconv.Atoi(digits); err != nil {
				return PythonVersion{}, fmt.Errorf("parse patch version %q: %w", parts[2], err)
			}
		}
	}
	return version, nil
}
