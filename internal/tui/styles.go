package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title, success, pending, accent, muted, error lipgloss.Style
	selected, done, help                          lipgloss.Style
	panel, inputFocused, inputBlurred             lipgloss.Style

	boxChecked, boxUnchecked string
}

func newStyles(theme string) styles {
	border := lipgloss.RoundedBorder()
	boxChecked, boxUnchecked := "☑", "☐"
	accent, frame := lipgloss.Color("12"), lipgloss.Color("8")

	switch strings.ToLower(theme) {
	case "neon":
		accent = lipgloss.Color("14")
		boxChecked, boxUnchecked = "◼", "◻"
	case "mono":
		border = lipgloss.NormalBorder()
		boxChecked, boxUnchecked = "[x]", "[ ]"
		return styles{
			title:        lipgloss.NewStyle().Bold(true),
			selected:     lipgloss.NewStyle().Bold(true),
			done:         lipgloss.NewStyle().Strikethrough(true),
			panel:        lipgloss.NewStyle().Border(border).Padding(0, 1),
			inputFocused: lipgloss.NewStyle().Border(border).Padding(0, 1),
			inputBlurred: lipgloss.NewStyle().Border(border).Padding(0, 1),
			boxChecked:   boxChecked,
			boxUnchecked: boxUnchecked,
		}
	}

	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		accent:   lipgloss.NewStyle().Foreground(accent),
		muted:    lipgloss.NewStyle().Faint(true),
		error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		help:     lipgloss.NewStyle().Faint(true),
		panel: lipgloss.NewStyle().
			Border(border).
			BorderForeground(frame).
			Padding(0, 1),
		inputFocused: lipgloss.NewStyle().Border(border).BorderForeground(accent).Padding(0, 1),
		inputBlurred: lipgloss.NewStyle().Border(border).BorderForeground(frame).Padding(0, 1),
		boxChecked:   boxChecked,
		boxUnchecked: boxUnchecked,
	}
}
