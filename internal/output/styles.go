package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ConfigureColors disables styling when colors are unwanted or unavailable.
// Honors the NO_COLOR convention and falls back to plain text off a TTY.
func ConfigureColors(noColor bool) {
	if noColor || termenv.EnvNoColor() || !stdoutIsTerminal() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// IsTTY returns true if we can use the terminal for interactive prompts
func IsTTY() bool {
	// First check if stdin/stdout are terminals
	if !((isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))) {
		return false
	}
	// Also try to open /dev/tty to verify it's actually available
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// ColorSuccess colors text green
func ColorSuccess(text string) string {
	return successStyle.Render(text)
}

// ColorWarn colors text yellow
func ColorWarn(text string) string {
	return warnStyle.Render(text)
}

// ColorError colors text red
func ColorError(text string) string {
	return errorStyle.Render(text)
}

// ColorAccent colors text cyan, used for branch and remote names
func ColorAccent(text string) string {
	return accentStyle.Render(text)
}

// ColorDim makes text dim/gray
func ColorDim(text string) string {
	return dimStyle.Render(text)
}
