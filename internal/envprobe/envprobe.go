// Package envprobe inspects the host the bot will be installed on: OS family,
// interpreter version, and the external tools the runtime depends on.
package envprobe

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency the bot runtime relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		command := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     command,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(command)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", command)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Requirements returns the standard dependency set for provisioning the bot.
// ffmpeg is required for merged downloads but the installer may continue
// without it when the operator explicitly accepts degraded output.
func Requirements() []Requirement {
	return []Requirement{
		{
			Name:        "Python",
			Command:     "python3",
			Description: "Runs the bot and creates the virtual environment",
		},
		{
			Name:        "FFmpeg",
			Command:     "ffmpeg",
			Description: "Merges video and audio streams",
		},
		{
			Name:        "Git",
			Command:     "git",
			Description: "Used for source updates",
			Optional:    true,
		},
		{
			Name:        "systemctl",
			Command:     "systemctl",
			Description: "Registers the bot as a supervised service",
			Optional:    true,
		},
	}
}
