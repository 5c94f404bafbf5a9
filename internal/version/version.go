package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata for the hue CLI. Override at link time with
// -ldflags "-X hue/internal/version.Version=...".
var (
	Version    = "0.1.0-dev"
	GitCommit  = ""
	GitMessage = ""
	BuildDate  = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component highlighted.
// Honors color.NoColor like every other fatih/color output.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Describe is the one-line form used by "hue version".
func Describe(colored bool) string {
	v := Version
	if colored {
		v = Colored()
	}
	var sb strings.Builder
	sb.WriteString("hue " + v)
	if GitCommit != "" {
		sb.WriteString(" (" + GitCommit)
		if BuildDate != "" {
			sb.WriteString(", " + BuildDate)
		}
		sb.WriteString(")")
	} else if BuildDate != "" {
		sb.WriteString(" (" + BuildDate + ")")
	}
	return sb.String()
}
