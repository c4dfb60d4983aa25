package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func stubVars(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestGet(t *testing.T) {
	installed := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/matzehuels/flowtower", Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "4f2a9c1"},
			{Key: "vcs.time", Value: "2026-09-30T12:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	devel := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}

	tests := []struct {
		name                  string
		version, commit, date string
		bi                    *debug.BuildInfo
		want                  Info
	}{
		{
			name:    "ldflags win",
			version: "v0.3.0", commit: "abc123", date: "2026-09-01",
			bi:   installed,
			want: Info{Version: "v0.3.0", Commit: "abc123", Date: "2026-09-01"},
		},
		{
			name:    "go install fills defaults",
			version: "dev", commit: "none", date: "unknown",
			bi:   installed,
			want: Info{Version: "v0.3.1", Commit: "4f2a9c1-dirty", Date: "2026-09-30T12:00:00Z"},
		},
		{
			name:    "devel build keeps dev",
			version: "dev", commit: "none", date: "unknown",
			bi:   devel,
			want: Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
		{
			name:    "no build info",
			version: "dev", commit: "none", date: "unknown",
			want: Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubVars(t, tt.version, tt.commit, tt.date)
			stubBuildInfo(t, tt.bi)
			if got := Get(); got != tt.want {
				t.Errorf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	stubVars(t, "v0.3.0", "abc123", "2026-09-01")
	stubBuildInfo(t, nil)

	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version v0.3.0\n") {
		t.Errorf("Template() = %q, want it to start with the name and version", got)
	}
	if !strings.Contains(got, "commit: abc123") {
		t.Errorf("Template() = %q, want the commit", got)
	}
	if s := Get().String(); !strings.Contains(s, "built: 2026-09-01") {
		t.Errorf("String() = %q, want the build date", s)
	}
}
