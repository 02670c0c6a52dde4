package version

import "testing"

func TestGetVersion(t *testing.T) {
	// Default version should be "dev"
	v := GetVersion()
	if v == "" {
		t.Error("GetVersion() should not return empty string")
	}

	// Without a commit, the version is returned as is
	if Commit == "" && v != Version {
		t.Errorf("GetVersion() = %q, want %q", v, Version)
	}
}

func TestGetVersion_Modified(t *testing.T) {
	// Save originals and restore after test
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	tests := []struct {
		version  string
		commit   string
		expected string
	}{
		{"v1.2.3", "", "v1.2.3"},
		{"v1.2.3", "0123456789abcdef", "v1.2.3 (0123456)"},
		{"v1.2.3", "abc", "v1.2.3 (abc)"},
	}

	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := GetVersion(); got != tt.expected {
			t.Errorf("GetVersion() with commit %q = %q, want %q", tt.commit, got, tt.expected)
		}
	}
}
