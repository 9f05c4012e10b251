package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/radsim/internal/transport"
)

const (
	graphWidth  = 50
	graphHeight = 8
)

// RunBatch runs histories first to first+n-1.
type RunBatch func(ctx context.Context, first, n int) ([]transport.HistoryTally, error)

type batchMsg struct {
	generation int
	tallies    []transport.HistoryTally
	err        error
}

// Model runs a fixed number of histories in batches and shows the running
// summary.
type Model struct {
	ctx   context.Context
	run   RunBatch
	title string

	total, batch, bins int

	tallies    []transport.HistoryTally
	summary    transport.Summary
	deposition []float64

	running    bool
	inFlight   bool
	generation int
	started    time.Time
	elapsed    time.Duration
	err        error

	theme  Theme
	styles styles
}

func NewModel(ctx context.Context, title string, total, batch, bins int, run RunBatch) Model {
	if batch <= 0 {
		batch = transport.DefaultBatchSize
	}
	if bins <= 0 {
		bins = transport.DefaultAngleBins
	}
	return Model{
		ctx:     ctx,
		run:     run,
		title:   title,
		total:   total,
		batch:   batch,
		bins:    bins,
		running: true,
		started: time.Now(),
		theme:   Themes[0],
		styles:  newStyles(Themes[0]),
	}
}

func (m Model) WithTheme(t Theme) Model {
	m.theme = t
	m.styles = newStyles(t)
	return m
}

// Tallies are the histories finished so far, in history order.
func (m Model) Tallies() []transport.HistoryTally { return m.tallies }

func (m Model) Done() bool { return len(m.tallies) >= m.total }

func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return m.batchCmd()
}

func (m Model) batchCmd() tea.Cmd {
	first := len(m.tallies)
	n := min(m.batch, m.total-first)
	gen, ctx, run := m.generation, m.ctx, m.run
	return func() tea.Msg {
		tallies, err := run(ctx, first, n)
		return batchMsg{generation: gen, tallies: tallies, err: err}
	}
}

// next starts the following batch unless one is running or there is
// nothing left to do.
func (m Model) next() (Model, tea.Cmd) {
	if !m.running || m.inFlight || m.Done() || m.err != nil {
		return m, nil
	}
	m.inFlight = true
	return m, m.batchCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
			return m.next()
		case "r":
			m.generation++
			m.tallies = nil
			m.summary = transport.Summary{}
			m.deposition = nil
			m.err = nil
			m.started = time.Now()
			m.elapsed = 0
			return m.next()
		case "t":
			return m.WithTheme(nextTheme(m.theme)), nil
		}

	case batchMsg:
		m.inFlight = false
		if msg.generation != m.generation {
			return m.next()
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.tallies = append(m.tallies, msg.tallies...)
		m.summary = transport.Summarize(m.tallies, m.bins)
		m.deposition = append(m.deposition, m.summary.Deposited.Mean)
		m.elapsed = time.Since(m.started)
		return m.next()
	}
	return m, nil
}

func (m Model) View() string {
	st := m.styles
	var s strings.Builder

	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n\n")

	status := st.good.Render("RUNNING")
	switch {
	case m.err != nil:
		status = st.bad.Render("ERROR: " + m.err.Error())
	case m.Done():
		status = st.good.Render("DONE")
	case !m.running:
		status = st.warn.Render("PAUSED")
	}
	s.WriteString(status + "\n")

	done := float64(len(m.tallies)) / float64(max(m.total, 1))
	s.WriteString(fmt.Sprintf("%s %d/%d  %s\n\n",
		st.ProgressBar(done, 40), len(m.tallies), m.total, m.elapsed.Round(time.Millisecond)))

	if len(m.tallies) > 0 {
		var body strings.Builder
		writeSummary(&body, st, &m.summary)
		s.WriteString(st.panel.Render(strings.TrimRight(body.String(), "\n")) + "\n")
	}
	if len(m.deposition) > 1 {
		s.WriteString(st.row("Deposited mean", st.value.Foreground(m.theme.Accent).Render(Sparkline(m.deposition, graphWidth))))
	}
	if chart := AngleHistogram(&m.summary, graphWidth, graphHeight); chart != "" {
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString(st.help.Render("space: pause  r: restart  t: theme  q: quit"))
	return s.String()
}
