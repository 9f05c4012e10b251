package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
	panel  lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		label: lipgloss.NewStyle().Foreground(t.Muted).Width(16),
		value: lipgloss.NewStyle().Foreground(t.Text),
		graph: lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		help:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 2),
		good: lipgloss.NewStyle().Bold(true).Foreground(t.Good),
		warn: lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		bad:  lipgloss.NewStyle().Bold(true).Foreground(t.Bad),
	}
}

func (s styles) row(label, value string) string {
	return s.label.Render(label) + s.value.Render(value) + "\n"
}

// ProgressBar renders fraction done in width cells.
func (s styles) ProgressBar(done float64, width int) string {
	filled := int(done * float64(width))
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case done > 0.8:
		return s.good.Render(bar)
	case done > 0.4:
		return s.warn.Render(bar)
	}
	return s.bad.Render(bar)
}

// Sparkline renders values as one row of block characters.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := max(len(values)/width, 1)
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / span
		idx := max(0, min(int(norm*float64(len(chars)-1)), len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}
