package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ANSI color numbers (0-15) to respect terminal themes.
var (
	colorGreen = lipgloss.ANSIColor(2)
	colorRed   = lipgloss.ANSIColor(1)
	colorCyan  = lipgloss.ANSIColor(6)
	colorGray  = lipgloss.ANSIColor(8)
)

var (
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleError   = lipgloss.NewStyle().Foreground(colorRed)
	StyleSubtle  = lipgloss.NewStyle().Foreground(colorGray)
	StyleBold    = lipgloss.NewStyle().Bold(true)
)

const (
	SymCheck = "✓"
	SymCross = "✗"
)

// Success returns a green check-prefixed message.
func Success(msg string) string {
	return StyleSuccess.Render(SymCheck + " " + msg)
}

// Successf returns a green check-prefixed formatted message.
func Successf(format string, a ...any) string {
	return Success(fmt.Sprintf(format, a...))
}

// Error returns a red cross-prefixed message.
func Error(msg string) string {
	return StyleError.Render(SymCross + " " + msg)
}

// Subtle returns dim gray text.
func Subtle(msg string) string {
	return StyleSubtle.Render(msg)
}

// Table renders a styled table with rounded borders.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
