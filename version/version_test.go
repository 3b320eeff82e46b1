package version

import "testing"

func TestGetDefaults(t *testing.T) {
	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected dev version, got %q", info.Version)
	}
	if len(info.GitCommit) > 7 {
		t.Errorf("expected short commit, got %q", info.GitCommit)
	}
}

func TestGetUsesLinkerValues(t *testing.T) {
	prevV, prevC := Version, GitCommit
	defer func() { Version, GitCommit = prevV, prevC }()

	Version, GitCommit = "1.2.0", "abcdef0123"
	info := Get()
	if info.Version != "1.2.0" {
		t.Errorf("expected 1.2.0, got %q", info.Version)
	}
	if info.GitCommit != "abcdef0" {
		t.Errorf("expected truncated commit, got %q", info.GitCommit)
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.info.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}
