package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals elsewhere.
var (
	// ColorCyan is used for identifiable nouns: project slugs, file paths, technologies.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for successfully synthesized files.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for warnings such as dependency cycles.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for placeholder files (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")
)

// Semantic styles.
var (
	StyleNoun    = lipgloss.NewStyle().Foreground(ColorCyan)
	StyleAction  = lipgloss.NewStyle().Bold(true)
	StyleDim     = lipgloss.NewStyle().Faint(true)
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Styles groups the styles used by tree and table rendering.
type Styles struct {
	Bold  lipgloss.Style
	Muted lipgloss.Style
}

// GetStyles returns the shared rendering styles.
func GetStyles() Styles {
	return Styles{
		Bold:  lipgloss.NewStyle().Bold(true),
		Muted: lipgloss.NewStyle().Foreground(ColorDimGray),
	}
}

// File status constants used when reporting synthesis results.
const (
	StatusTemplate    = "template"
	StatusSynthesized = "synthesized"
	StatusPlaceholder = "placeholder"
	StatusCycle       = "cycle"
)

// StatusStyle returns the lipgloss style for a given file status string.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusSynthesized:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusTemplate:
		return lipgloss.NewStyle().Faint(true)
	case StatusCycle:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusPlaceholder:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minPathColumnWidth keeps status words aligned across lines.
const minPathColumnWidth = 48

// FormatFileLine renders a file path with a right-aligned, color-coded status.
//
// Format: f:<path>  <status>
func FormatFileLine(path, status string) string {
	padding := minPathColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	prefix := StyleDim.Render("f:")
	styledPath := StyleNoun.Render(path)
	styledStatus := StatusStyle(status).Render(status)

	return prefix + styledPath + strings.Repeat(" ", padding) + styledStatus
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatSummary renders "<n> files, <m> placeholders" style summaries.
func FormatSummary(files, placeholders int) string {
	return StyleSummary.Render(fmt.Sprintf("%d files, %d placeholders", files, placeholders))
}
