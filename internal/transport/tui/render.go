package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"image-quiz/internal/app"
)

var (
	titleColor   = lipgloss.Color("33")
	mutedColor   = lipgloss.Color("242")
	correctColor = lipgloss.Color("42")
	wrongColor   = lipgloss.Color("203")
)

func renderQuestion(m Model, q app.QuestionView) string {
	lines := []string{
		stylize(q.Title, m.noColor, titleColor, true),
		stylize(fmt.Sprintf("Question %d of %d", q.Number, q.Total), m.noColor, mutedColor, false),
		"",
		"Image: " + q.ImagePath + " " + stylize(describeImage(q), m.noColor, mutedColor, false),
	}
	if m.screen.openErr != nil {
		lines = append(lines, stylize(m.screen.openErr.Error(), m.noColor, wrongColor, false))
	}
	if m.feedback != "" {
		color := wrongColor
		if m.correct {
			color = correctColor
		}
		lines = append(lines, "", stylize(m.feedback, m.noColor, color, false))
	}
	lines = append(lines,
		"",
		m.input.View(),
		"",
		stylize("enter: submit • ctrl+c: quit", m.noColor, mutedColor, false),
	)
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func renderResults(summary app.Summary, t table.Model, noColor bool) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		stylize("Results", noColor, titleColor, true),
		"",
		app.FormatRate(summary.Rate),
		summary.Grade,
		"",
		t.View(),
		"",
		stylize("enter: done", noColor, mutedColor, false),
	) + "\n"
}

func describeImage(q app.QuestionView) string {
	if q.Image.ContentType == "" {
		return ""
	}
	return fmt.Sprintf("(%s, %s)", q.Image.ContentType, formatSize(len(q.Image.Data)))
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func stylize(text string, noColor bool, color lipgloss.Color, bold bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Bold(bold).Render(text)
}

func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	if noColor {
		styles.Header = lipgloss.NewStyle().Padding(0, 1)
		styles.Cell = lipgloss.NewStyle().Padding(0, 1)
		styles.Selected = lipgloss.NewStyle()
		return styles
	}
	styles.Header = styles.Header.Bold(true).Foreground(titleColor)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	return styles
}
