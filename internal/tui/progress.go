package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// PackageDone reports one finished package.
type PackageDone struct {
	Name   string
	Detail string
	Err    error
}

func (d PackageDone) line() string {
	if d.Err != nil {
		return ErrorStyle.Render(SymbolCross+" "+d.Name) + " " + MutedStyle.Render(d.Err.Error())
	}
	return SuccessStyle.Render(SymbolCheck+" "+d.Name) + " " + MutedStyle.Render(d.Detail)
}

type workFinished struct{ err error }

type progressModel struct {
	spinner     spinner.Model
	title       string
	total       int
	done        []PackageDone
	failed      int
	finished    bool
	interrupted bool
	cancel      func()
	err         error
}

func newProgressModel(title string, total int, cancel func()) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle
	return progressModel{spinner: s, title: title, total: total, cancel: cancel}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PackageDone:
		m.done = append(m.done, msg)
		if msg.Err != nil {
			m.failed++
		}
		return m, nil
	case workFinished:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.interrupted {
			// Keep running until the work returns so no outcome is lost.
			m.interrupted = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder
	for _, d := range m.done {
		b.WriteString(d.line())
		b.WriteByte('\n')
	}
	if m.finished {
		return b.String()
	}

	status := fmt.Sprintf("%s %d/%d", m.title, len(m.done), m.total)
	if m.failed > 0 {
		status += ErrorStyle.Render(fmt.Sprintf(" (%d failed)", m.failed))
	}
	if m.interrupted {
		status += WarningStyle.Render(" stopping...")
	}
	b.WriteString(m.spinner.View() + " " + status + "\n")
	return b.String()
}

// RunWithProgress runs work while drawing a spinner and one line per
// finished package on stderr. work reports packages through report. Ctrl+C
// calls cancel and waits for work to return.
func RunWithProgress(title string, total int, cancel func(), work func(report func(PackageDone)) error) error {
	program := tea.NewProgram(newProgressModel(title, total, cancel), tea.WithOutput(os.Stderr))
	go func() {
		err := work(func(d PackageDone) { program.Send(d) })
		program.Send(workFinished{err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("progress display: %w", err)
	}
	return final.(progressModel).err
}

// PlainReporter writes one unstyled line per finished package to w.
func PlainReporter(w io.Writer) func(PackageDone) {
	return func(d PackageDone) {
		if d.Err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", SymbolCross, d.Name, d.Err)
			return
		}
		fmt.Fprintf(w, "%s %s %s\n", SymbolCheck, d.Name, d.Detail)
	}
}
