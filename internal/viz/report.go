package viz

import (
	"fmt"
	"slices"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/radsim/internal/reaction"
	"github.com/san-kum/radsim/internal/transport"
)

// Report renders a finished run as text.
func Report(res *transport.Result, theme Theme) string {
	st := newStyles(theme)
	var b strings.Builder

	title := fmt.Sprintf("%s %s  %g MeV", res.Atom, res.Particle, res.Config.Energy)
	b.WriteString(st.header.Render(title) + "\n\n")
	writeSummary(&b, st, &res.Summary)

	if len(res.Metrics) > 0 {
		b.WriteString("\n")
		names := make([]string, 0, len(res.Metrics))
		for name := range res.Metrics {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			b.WriteString(st.row(name, fmt.Sprintf("%.6g", res.Metrics[name])))
		}
	}

	if chart := AngleHistogram(&res.Summary, 60, 10); chart != "" {
		b.WriteString(st.graph.Render(chart) + "\n")
	}
	return b.String()
}

func writeSummary(b *strings.Builder, st styles, s *transport.Summary) {
	b.WriteString(st.row("Histories", fmt.Sprintf("%d", s.Histories)))
	b.WriteString(st.row("Collisions", estimate(s.Collisions)))
	b.WriteString(st.row("Deposited", estimate(s.Deposited)+" MeV"))
	b.WriteString(st.row("Escaped", estimate(s.Escaped)+" MeV"))
	b.WriteString(st.row("Electrons", fmt.Sprintf("%.4g", s.Electrons)))
	b.WriteString(st.row("Photons", fmt.Sprintf("%.4g", s.Photons)))
	if s.Positrons > 0 {
		b.WriteString(st.row("Positrons", fmt.Sprintf("%.4g", s.Positrons)))
	}
	if s.Probes > 0 {
		b.WriteString(st.row("Probes", fmt.Sprintf("%.4g", s.Probes)))
	}
	if s.Truncated > 0 {
		b.WriteString(st.row("Truncated", st.bad.Render(fmt.Sprintf("%d", s.Truncated))))
	}

	kinds := make([]reaction.Kind, 0, len(s.Reactions))
	for k := range s.Reactions {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	if len(kinds) > 0 {
		b.WriteString("\n")
	}
	for _, k := range kinds {
		b.WriteString(st.row(k.String(), fmt.Sprintf("%.4f", s.Reactions[k])))
	}

	if len(s.Lines) > 0 {
		b.WriteString("\n")
	}
	for _, l := range s.Lines {
		b.WriteString(st.row(fmt.Sprintf("line %g MeV", l.Energy), fmt.Sprintf("%.6g", l.Weight)))
	}
}

func estimate(e transport.Estimate) string {
	return fmt.Sprintf("%.6g ± %.2g", e.Mean, e.StdErr)
}

// AngleHistogram plots the first-collision cosine histogram, or returns ""
// when nothing was scored.
func AngleHistogram(s *transport.Summary, width, height int) string {
	var total float64
	for _, c := range s.AngleCounts {
		total += c
	}
	if total == 0 || len(s.AngleCounts) < 2 {
		return ""
	}
	return asciigraph.Plot(s.AngleCounts,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("first-collision cosine, -1 to 1"),
	)
}
