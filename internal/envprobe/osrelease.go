package envprobe

import (
	"bufio"
	"io"
	"os"
	"runtime"
	"strings"
)

// Family groups distributions by package manager lineage.
type Family string

const (
	FamilyDebian  Family = "debian"
	FamilyRHEL    Family = "rhel"
	FamilyArch    Family = "arch"
	FamilyAlpine  Family = "alpine"
	FamilySUSE    Family = "suse"
	FamilyDarwin  Family = "darwin"
	FamilyUnknown Family = "unknown"
)

// OSInfo describes the detected host operating system.
type OSInfo struct {
	Family     Family
	ID         string
	PrettyName string
}

// DetectOS identifies the host OS family. On Linux it reads /etc/os-release;
// elsewhere it falls back to runtime.GOOS.
func DetectOS() OSInfo {
	if runtime.GOOS == "darwin" {
		return OSInfo{Family: FamilyDarwin, ID: "darwin", PrettyName: "macOS"}
	}
	if runtime.GOOS != "linux" {
		return OSInfo{Family: FamilyUnknown, ID: runtime.GOOS, PrettyName: runtime.GOOS}
	}

	file, err := os.Open("/etc/os-release")
	if err != nil {
		return OSInfo{Family: FamilyUnknown, ID: "linux", PrettyName: "Linux"}
	}
	defer file.Close()
	return ParseOSRelease(file)
}

// ParseOSRelease classifies an os-release document into a distro family.
func ParseOSRelease(r io.Reader) OSInfo {
	values := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		row := strings.TrimSpace(scanner.Text())
		if row == "" || strings.HasPrefix(row, "#") {
			continue
		}
		eq := strings.Index(row, "=")
		if eq <= 0 {
			continue
		}
		key := row[:eq]
		value := strings.Trim(row[eq+1:], `"`)
		values[key] = value
	}

	info := OSInfo{
		ID:         strings.ToLower(values["ID"]),
		PrettyName: values["PRETTY_NAME"],
	}
	if info.PrettyName == "" {
		info.PrettyName = values["NAME"]
	}
	if info.PrettyName == "" {
		info.PrettyName = "Linux"
	}

	info.Family = classifyFamily(info.ID, strings.ToLower(values["ID_LIKE"]))
	return info
}

func classifyFamily(id, idLike string) Family {
	candidates := append([]string{id}, strings.Fields(idLike)...)
	for _, candidate := range candidates {
		switch candidate {
		case "debian", "ubuntu", "linuxmint", "raspbian":
			return FamilyDebian
		case "rhel", "fedora", "centos", "rocky", "almalinux":
			return FamilyRHEL
		case "arch", "manjaro":
			return FamilyArch
		case "alpine":
			return FamilyAlpine
		case "suse", "opensuse", "opensuse-leap", "opensuse-tumbleweed":
			return FamilySUSE
		}
	}
	return FamilyUnknown
}

// PackageHint returns the package manager invocation that installs ffmpeg on
// the detected platform. Used for operator-facing guidance only.
func (o OSInfo) PackageHint() string {
	switch o.Family {
	case FamilyDebian:
		return "sudo apt install ffmpeg"
	case FamilyRHEL:
		return "sudo dnf install ffmpeg"
	case FamilyArch:
		return "sudo pacman -S ffmpeg"
	case FamilyAlpine:
		return "sudo apk add ffmpeg"
	case FamilySUSE:
		return "sudo zypper install ffmpeg"
	case FamilyDarwin:
		return "brew install ffmpeg"
	default:
		return "install ffmpeg with your system package manager"
	}
}
