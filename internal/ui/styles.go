// Package ui provides stateless terminal styling helpers.
//
// Every helper is a pure function from text to decorated text; there is no
// process-wide color state to set or reset.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette
var (
	AccentColor  = lipgloss.Color("#5F87FF") // Blue - headers, addresses
	SuccessColor = lipgloss.Color("#43BF6D") // Green - success messages
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors
	WarningColor = lipgloss.Color("#FFA500") // Orange - in-progress, warnings
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
)

// Layout constants
const (
	MinTerminalWidth = 44
	MaxContentWidth  = 80
)

var (
	successStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	errorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	warnStyle    = lipgloss.NewStyle().Foreground(WarningColor)
	accentStyle  = lipgloss.NewStyle().Foreground(AccentColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(MutedColor)
	titleStyle   = lipgloss.NewStyle().Foreground(AccentColor).Bold(true)
)

// Success renders text in the success color
func Success(s string) string { return successStyle.Render(s) }

// Error renders text in the error color
func Error(s string) string { return errorStyle.Render(s) }

// Warn renders text in the warning color
func Warn(s string) string { return warnStyle.Render(s) }

// Accent renders text in the accent color
func Accent(s string) string { return accentStyle.Render(s) }

// Muted renders text in the muted color
func Muted(s string) string { return mutedStyle.Render(s) }

// StateText renders a lamp state label: green for ON, red for OFF
func StateText(on bool) string {
	if on {
		return Success("ON")
	}
	return Error("OFF")
}

// Banner renders the application header box
func Banner(title string) string {
	width := TerminalWidth()

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AccentColor).
		Width(width - 2).
		Align(lipgloss.Center).
		Render(titleStyle.Render(title))
}

// Divider renders a horizontal rule of the terminal width
func Divider() string {
	return mutedStyle.Render(strings.Repeat("─", TerminalWidth()))
}

// TerminalWidth returns the current terminal width, with fallback
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
