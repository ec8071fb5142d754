package envprobe_test

import (
	"context"
	"strings"
	"testing"

	"botstrap/internal/envprobe"
	"botstrap/internal/testsupport"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := envprobe.CheckBinaries([]envprobe.Requirement{
		{Name: "Ghost", Command: "definitely-not-a-real-binary-48151623"},
	})
	if len(statuses) != 1 {
		t.Fatalf("got %d statuses, want 1", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("missing binary reported as available")
	}
	if !strings.Contains(statuses[0].Detail, "not found") {
		t.Fatalf("unexpected detail %q", statuses[0].Detail)
	}
}

func TestCheckBinariesFindsStub(t *testing.T) {
	testsupport.StubBinaries(t, "ffmpeg")
	statuses := envprobe.CheckBinaries([]envprobe.Requirement{
		{Name: "FFmpeg", Command: "ffmpeg"},
	})
	if !statuses[0].Available {
		t.Fatalf("stubbed ffmpeg not detected: %s", statuses[0].Detail)
	}
}

func TestProbePythonAcceptsSupportedVersion(t *testing.T) {
	testsupport.StubBinaryScript(t, "python3", "#!/bin/sh\necho 'Python 3.11.4'\n")
	status := envprobe.ProbePython(context.Background(), "python3")
	if !status.Available {
		t.Fatalf("supported python rejected: %s", status.Detail)
	}
	if status.Detail != "3.11.4" {
		t.Fatalf("detail = %q, want 3.11.4", status.Detail)
	}
}

func TestProbePythonRejectsOldVersion(t *testing.T) {
	testsupport.StubBinaryScript(t, "python3", "#!/bin/sh\necho 'Python 3.6.9'\n")
	status := envprobe.ProbePython(context.Background(), "python3")
	if status.Available {
		t.Fatal("python 3.6 accepted")
	}
	if !strings.Contains(status.Detail, "3.8 or newer") {
		t.Fatalf("unexpected detail %q", status.Detail)
	}
}

func TestParsePythonVersion(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Python 3.12.1\n", want: "3.12.1"},
		{in: "Python 3.8.0b1", want: "3.8.0"},
		{in: "Python 3.10", want: "3.10.0"},
		{in: "pypy 7.3", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		version, err := envprobe.ParsePythonVersion(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePythonVersion(%q) succeeded, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePythonVersion(%q): %v", tc.in, err)
			continue
		}
		if version.String() != tc.want {
			t.Errorf("ParsePythonVersion(%q) = %s, want %s", tc.in, version, tc.want)
		}
	}
}

func TestParseOSReleaseClassifiesFamilies(t *testing.T) {
	cases := []struct {
		name   string
		doc    string
		family envprobe.Family
	}{
		{
			name:   "ubuntu",
			doc:    "ID=ubuntu\nID_LIKE=debian\nPRETTY_NAME=\"Ubuntu 24.04 LTS\"\n",
			family: envprobe.FamilyDebian,
		},
		{
			name:   "fedora",
			doc:    "ID=fedora\nPRETTY_NAME=\"Fedora Linux 41\"\n",
			family: envprobe.FamilyRHEL,
		},
		{
			name:   "arch",
			doc:    "ID=arch\nNAME=\"Arch Linux\"\n",
			family: envprobe.FamilyArch,
		},
		{
			name:   "alpine",
			doc:    "ID=alpine\n",
			family: envprobe.FamilyAlpine,
		},
		{
			name:   "mystery",
			doc:    "ID=plan9\n",
			family: envprobe.FamilyUnknown,
		},
	}
	for _, tc := range cases {
		info := envprobe.ParseOSRelease(strings.NewReader(tc.doc))
		if info.Family != tc.family {
			t.Errorf("%s: family = %s, want %s", tc.name, info.Family, tc.family)
		}
	}
}

func TestPackageHintMentionsManager(t *testing.T) {
	info := envprobe.OSInfo{Family: envprobe.FamilyDebian}
	if !strings.Contains(info.PackageHint(), "apt") {
		t.Fatalf("debian hint = %q", info.PackageHint())
	}
}
