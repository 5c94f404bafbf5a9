package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestDescribePlain(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version = "1.2.3"
	GitCommit = ""
	BuildDate = ""
	if got := Describe(false); got != "hue 1.2.3" {
		t.Errorf("Describe() = %q", got)
	}

	GitCommit = "abc123"
	BuildDate = "2024-01-15T10:30:00Z"
	if got := Describe(false); got != "hue 1.2.3 (abc123, 2024-01-15T10:30:00Z)" {
		t.Errorf("Describe() = %q", got)
	}

	GitCommit = ""
	if got := Describe(false); got != "hue 1.2.3 (2024-01-15T10:30:00Z)" {
		t.Errorf("Describe() = %q", got)
	}
}

func TestColoredKeepsSuffix(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()

	color.NoColor = true
	Version = "0.4.1-rc1"
	if got := Colored(); got != "0.4.1-rc1" {
		t.Errorf("Colored() = %q", got)
	}
	Version = "nightly"
	if got := Colored(); got != "nightly" {
		t.Errorf("non-semver versions pass through, got %q", got)
	}
}
