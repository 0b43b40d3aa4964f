// Package ui holds the shared lipgloss styles and output helpers for abp.
// All user-facing output goes through these so the CLI degrades to plain
// text when stdout is not a terminal.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// IsTTY indicates whether stdout is an interactive terminal.
// When false, UI functions produce plain text without colors or decorations.
var IsTTY = term.IsTerminal(os.Stdout.Fd())

// Color palette.
var (
	Gold     = lipgloss.Color("#F4D03F")
	Green    = lipgloss.Color("#58D68D")
	Blue     = lipgloss.Color("#5DADE2")
	Cyan     = lipgloss.Color("#76D7C4")
	Copper   = lipgloss.Color("#DC7633")
	Pink     = lipgloss.Color("#FF6B9D")
	Gray     = lipgloss.Color("#AAB7B8")
	DarkGray = lipgloss.Color("#5D6D7E")
)

// Text styles.
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Gold)

	Success = lipgloss.NewStyle().
		Foreground(Green)

	Error = lipgloss.NewStyle().
		Foreground(Pink).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Copper)

	Info = lipgloss.NewStyle().
		Foreground(Blue)

	Muted = lipgloss.NewStyle().
		Foreground(Gray)

	Highlight = lipgloss.NewStyle().
		Foreground(Gold).
		Bold(true)

	Code = lipgloss.NewStyle().
		Foreground(Cyan)
)

// Divider returns a horizontal divider.
func Divider(width int) string {
	return lipgloss.NewStyle().
		Foreground(DarkGray).
		Render(strings.Repeat("─", width))
}

// SectionHeader creates a decorated section header.
func SectionHeader(title string) string {
	if !IsTTY {
		return fmt.Sprintf("=== %s ===", title)
	}

	width := TerminalWidth()
	if width > 80 {
		width = 80
	}

	titleStyled := lipgloss.NewStyle().
		Foreground(Gold).
		Bold(true).
		Render(title)

	titleLen := lipgloss.Width(title)
	padLeft := (width - titleLen - 6) / 2
	if padLeft < 2 {
		padLeft = 2
	}
	padRight := width - titleLen - 6 - padLeft
	if padRight < 2 {
		padRight = 2
	}

	left := lipgloss.NewStyle().Foreground(DarkGray).Render(strings.Repeat("─", padLeft) + "┤ ")
	right := lipgloss.NewStyle().Foreground(DarkGray).Render(" ├" + strings.Repeat("─", padRight))

	return left + titleStyled + right
}

// StatusLine creates a status line with icon and message.
func StatusLine(icon, message string, color lipgloss.Color) string {
	if !IsTTY {
		return fmt.Sprintf("  %s %s", icon, message)
	}
	iconStyled := lipgloss.NewStyle().Foreground(color).Render(icon)
	return fmt.Sprintf("  %s %s", iconStyled, message)
}

// SuccessLine creates a success status line.
func SuccessLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  OK: %s", message)
	}
	return StatusLine("✓", message, Green)
}

// ErrorLine creates an error status line.
func ErrorLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  ERROR: %s", message)
	}
	return StatusLine("✗", message, Pink)
}

// WarningLine creates a warning status line.
func WarningLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  WARN: %s", message)
	}
	return StatusLine("!", message, Copper)
}

// InfoLine creates an info status line.
func InfoLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  %s", message)
	}
	return StatusLine("→", message, Blue)
}

// TerminalWidth returns the current terminal width, defaulting to 80 if unknown.
func TerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
