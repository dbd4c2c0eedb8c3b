// Package cli holds the non-TUI terminal surface: the color palette,
// the styled help printer, and the version/error printers.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Shared palette. The amber is the brand color; the rest are signal
// colors the help printer and the status printers reuse.
var (
	primaryColor = lipgloss.Color("#D97706") // bandsaw amber
	successColor = lipgloss.Color("#00AA00")
	infoColor    = lipgloss.Color("#00AAAA")
	errorColor   = lipgloss.Color("#A40000")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).MarginBottom(1)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	KeyStyle     = lipgloss.NewStyle().Foreground(mutedColor)
	ValueStyle   = lipgloss.NewStyle().Bold(true).Foreground(textColor)
)

// PrintVersion prints the banner and version.
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("Bandsaw 🪚"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError writes an error line to stderr.
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintSuccess writes a confirmation line to stdout.
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), message)
}
