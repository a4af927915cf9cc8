package cli

// ANSI color codes for terminal output.
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
)

// FormatCriticality returns a colored criticality label.
func FormatCriticality(critical bool) string {
	if critical {
		return ColorRed + "critical" + ColorReset
	}
	return ColorGreen + "non-critical" + ColorReset
}
