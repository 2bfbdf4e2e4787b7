package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Unexported style variables.
//
//nolint:gochecknoglobals // Shared lipgloss styles, set once
var (
	accentColor = lipgloss.Color("39")
	dimColor    = lipgloss.Color("241")
	errorColor  = lipgloss.Color("196")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	labelStyle = lipgloss.NewStyle().Foreground(dimColor)
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errStyle   = lipgloss.NewStyle().Foreground(errorColor)
)

// newProgressBar creates a progress bar with consistent styling.
func newProgressBar(width int) progress.Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = width
	bar.ShowPercentage = false // percentage is rendered alongside the labels

	return bar
}

// View implements tea.Model
func (m Model) View() string {
	var view strings.Builder

	title := "supercopy"
	if m.state == stateCancelling {
		title += " (cancelling, waiting for in-flight copies)"
	}

	view.WriteString(titleStyle.Render(title))
	view.WriteString("\n\n")

	view.WriteString(m.renderProgressSection())
	view.WriteString("\n")
	view.WriteString(m.renderActivitySection())

	view.WriteString("\n")
	view.WriteString(labelStyle.Render("esc/q cancel • ctrl+c quit"))
	view.WriteString("\n")

	return view.String()
}

func (m Model) renderProgressSection() string {
	snap := m.snapshot

	filesPercent := 0.0
	if snap.FilesTotal > 0 {
		filesPercent = float64(snap.FilesDone) / float64(snap.FilesTotal)
	}

	bytesPercent := 0.0
	if snap.BytesTotal > 0 {
		bytesPercent = float64(snap.BytesDone) / float64(snap.BytesTotal)
	}

	var section strings.Builder

	section.WriteString(fmt.Sprintf("%s %s %d / %d (%.0f%%)\n",
		labelStyle.Render("Files"),
		m.filesBar.ViewAs(filesPercent),
		snap.FilesDone, snap.FilesTotal, filesPercent*100))

	section.WriteString(fmt.Sprintf("%s %s %s / %s (%.0f%%)\n",
		labelStyle.Render("Bytes"),
		m.bytesBar.ViewAs(bytesPercent),
		FormatBytes(snap.BytesDone), FormatBytes(snap.BytesTotal), bytesPercent*100))

	rate := snap.Rate()
	line := fmt.Sprintf("%s  elapsed %s", FormatRate(rate), FormatDuration(snap.Elapsed))

	if rate > 0 && snap.BytesDone < snap.BytesTotal {
		remaining := time.Duration(float64(snap.BytesTotal-snap.BytesDone)/rate) * time.Second
		line += "  eta " + FormatDuration(remaining)
	}

	section.WriteString(labelStyle.Render(line))
	section.WriteString("\n")

	return section.String()
}

func (m Model) renderActivitySection() string {
	var section strings.Builder

	if len(m.active) > 0 {
		section.WriteString(m.spinner.View())
		section.WriteString(labelStyle.Render(" copying:"))
		section.WriteString("\n")

		for _, path := range m.active {
			section.WriteString("  " + pathStyle.Render(truncatePath(path, m.width-4)) + "\n")
		}
	}

	if len(m.recent) > 0 {
		section.WriteString(labelStyle.Render("recent:"))
		section.WriteString("\n")

		for _, line := range m.recent {
			style := pathStyle
			if strings.HasPrefix(line, "✗") {
				style = errStyle
			}

			section.WriteString("  " + style.Render(truncatePath(line, m.width-4)) + "\n")
		}
	}

	return section.String()
}

// truncatePath shortens a path from the left so the file name stays visible.
func truncatePath(path string, maxWidth int) string {
	if maxWidth <= 0 || len(path) <= maxWidth {
		return path
	}

	const ellipsis = "…"

	if maxWidth <= len(ellipsis) {
		return ellipsis
	}

	return ellipsis + path[len(path)-(maxWidth-1):]
}
