// Package ux provides terminal styling for generator output.
package ux

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	ColorAccent  = lipgloss.Color("#FFF100") // Hardhat yellow
	ColorSuccess = lipgloss.Color("#2ECC71")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#7F8C8D")
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title   lipgloss.Style
	Step    lipgloss.Style
	Command lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
	Step:    lipgloss.NewStyle().Bold(true),
	Command: lipgloss.NewStyle().Foreground(ColorAccent),
	Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
	Success: lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
}

// Status icons.
const (
	IconOK   = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
)

// Step writes a progress line for a pipeline stage.
func Step(w io.Writer, label string) {
	fmt.Fprintln(w, Styles.Step.Render(label))
}

// Warn writes a warning line.
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", Styles.Warning.Render(IconWarn), fmt.Sprintf(format, args...))
}

// Status writes a check result line: "  [✓] name  detail".
func Status(w io.Writer, ok bool, name, detail string) {
	icon := Styles.Success.Render(IconOK)
	if !ok {
		icon = Styles.Error.Render(IconFail)
	}
	if detail == "" {
		fmt.Fprintf(w, "  %s %s\n", icon, name)
		return
	}
	fmt.Fprintf(w, "  %s %s  %s\n", icon, name, Styles.Muted.Render(detail))
}
