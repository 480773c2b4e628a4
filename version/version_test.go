package version

import (
	"runtime/debug"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-15T10:30:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name string
		in   Info
		want Info
	}{
		{
			name: "vcs stamps fill blanks",
			in:   Info{Version: "dev"},
			want: Info{Version: "dev", GitCommit: "0123456", BuildTime: "2026-01-15T10:30:00Z", GoVersion: "go1.26.0", Dirty: true},
		},
		{
			name: "ldflags win",
			in:   Info{Version: "1.2.0", GitCommit: "feedbee", BuildTime: "yesterday"},
			want: Info{Version: "1.2.0", GitCommit: "feedbee", BuildTime: "yesterday", GoVersion: "go1.26.0", Dirty: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fromBuildInfo(tt.in, bi); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInfoStrings(t *testing.T) {
	tests := []struct {
		info      Info
		wantShort string
		wantFull  string
	}{
		{Info{Version: "dev", GoVersion: "go1.26.0"}, "dev", "dev (go1.26.0)"},
		{Info{Version: "1.2.0", GitCommit: "abc1234", GoVersion: "go1.26.0"}, "1.2.0-abc1234", "1.2.0-abc1234 (go1.26.0)"},
		{Info{Version: "1.2.0", GitCommit: "abc1234", Dirty: true, BuildTime: "t0", GoVersion: "go1.26.0"}, "1.2.0-abc1234-dirty", "1.2.0-abc1234-dirty (go1.26.0) built t0"},
	}
	for _, tt := range tests {
		t.Run(tt.wantShort, func(t *testing.T) {
			if got := tt.info.Short(); got != tt.wantShort {
				t.Errorf("Short() = %q, want %q", got, tt.wantShort)
			}
			if got := tt.info.String(); got != tt.wantFull {
				t.Errorf("String() = %q, want %q", got, tt.wantFull)
			}
		})
	}
}

func TestGet_DefaultVersion(t *testing.T) {
	if got := Get(); got.Version != Version {
		t.Errorf("expected %q, got %q", Version, got.Version)
	}
}
