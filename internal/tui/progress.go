// Package tui renders a live progress view while an evaluation runs.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/alpreval/internal/accuracy"
	"github.com/mwiater/alpreval/internal/util"
)

const barWidth = 30

// CaseMsg reports one finished case.
type CaseMsg struct {
	Done  int
	Total int
	Case  accuracy.CaseRecord
}

// DoneMsg tells the view the evaluation has finished.
type DoneMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	barFull    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barEmpty   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	statusStyles = map[accuracy.Status]lipgloss.Style{
		accuracy.StatusCorrect:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		accuracy.StatusIncorrect:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		accuracy.StatusNoPlate:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		accuracy.StatusNeedsLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
	}
)

// Model is the bubbletea model for the progress view.
type Model struct {
	spinner  spinner.Model
	total    int
	done     int
	counts   map[accuracy.Status]int
	last     accuracy.CaseRecord
	started  time.Time
	finished bool
	detached bool
	width    int
}

// NewModel returns a progress view for total samples.
func NewModel(total int) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &Model{
		spinner: s,
		total:   total,
		counts:  make(map[accuracy.Status]int),
		started: time.Now(),
		width:   80,
	}
}

// Init starts the spinner animation.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update folds progress messages into the view state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			// Only the view goes away; the evaluation keeps running.
			m.detached = true
			return m, tea.Quit
		}
		return m, nil
	case CaseMsg:
		m.done = msg.Done
		if msg.Total > 0 {
			m.total = msg.Total
		}
		m.counts[msg.Case.Status]++
		m.last = msg.Case
		return m, nil
	case DoneMsg:
		m.finished = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// View renders the progress bar, per-status counters and the latest case.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("alpreval accuracy"))
	b.WriteString("\n\n")

	indicator := m.spinner.View()
	if m.finished {
		indicator = statusStyles[accuracy.StatusCorrect].Render("✓")
	}
	elapsed := time.Since(m.started).Truncate(100 * time.Millisecond)
	fmt.Fprintf(&b, "  %s %s [%d/%d] %s\n", indicator, m.bar(), m.done, m.total, dimStyle.Render(elapsed.String()))

	var parts []string
	for _, status := range accuracy.Statuses {
		parts = append(parts, statusStyles[status].Render(fmt.Sprintf("%s=%d", status, m.counts[status])))
	}
	b.WriteString("  " + strings.Join(parts, "  ") + "\n")

	if m.last.Path != "" {
		pathWidth := m.width - 40
		if pathWidth < 20 {
			pathWidth = 20
		}
		fmt.Fprintf(&b, "  %s %s predicted=%q\n",
			dimStyle.Render(util.TruncateLeft(m.last.Path, pathWidth)),
			statusStyles[m.last.Status].Render(string(m.last.Status)),
			util.TruncateRunes(m.last.Predicted, 20))
	}
	if m.detached {
		b.WriteString(dimStyle.Render("  progress view closed; evaluation continues") + "\n")
	}
	return b.String()
}

func (m *Model) bar() string {
	filled := 0
	if m.total > 0 {
		filled = m.done * barWidth / m.total
	}
	if filled > barWidth {
		filled = barWidth
	}
	return barFull.Render(strings.Repeat("█", filled)) + barEmpty.Render(strings.Repeat("░", barWidth-filled))
}

// Run shows the progress view on out while work executes. Key presses are
// read from in, or from stdin when in is nil. work is handed a callback to
// report each finished case. Run returns once work has returned, even if the
// operator closed the view early.
func Run(ctx context.Context, total int, in io.Reader, out io.Writer, work func(progress accuracy.Progress)) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	program := tea.NewProgram(NewModel(total), opts...)

	workDone := make(chan struct{})
	go func() {
		defer close(workDone)
		work(func(done, total int, c accuracy.CaseRecord) {
			program.Send(CaseMsg{Done: done, Total: total, Case: c})
		})
		program.Send(DoneMsg{})
	}()

	_, err := program.Run()
	<-workDone
	return err
}
