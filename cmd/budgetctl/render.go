package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorBorder = lipgloss.Color("#282726")
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Align(lipgloss.Center)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	incomeStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	expenseStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

const boxWidth = 48

func renderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(boxWidth).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(titleStyle.Render(title))
}

// row is one label/value line of a rendered section.
type row struct {
	label string
	value string
	style lipgloss.Style
}

func renderSection(header string, rows []row) string {
	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.label))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(header))
	b.WriteByte('\n')
	for _, r := range rows {
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(r.label))
		fmt.Fprintf(&b, "  %s%s  %s\n", labelStyle.Render(r.label), pad, r.style.Render(r.value))
	}
	return b.String()
}
