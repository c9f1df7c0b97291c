// Package report renders analysis results for terminal runs.
package report

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned by RunLoader when the user presses ctrl+c.
var ErrCancelled = errors.New("cancelled")

type doneMsg[T any] struct {
	result T
	err    error
}

type loaderModel[T any] struct {
	label   string
	ctx     context.Context
	work    func(ctx context.Context) (T, error)
	spinner spinner.Model
	result  T
	err     error
	done    bool
}

func newLoaderModel[T any](ctx context.Context, label string, work func(ctx context.Context) (T, error)) loaderModel[T] {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	return loaderModel[T]{label: label, ctx: ctx, work: work, spinner: s}
}

func (m loaderModel[T]) Init() tea.Cmd {
	return tea.Batch(m.run(), m.spinner.Tick)
}

func (m loaderModel[T]) run() tea.Cmd {
	ctx, work := m.ctx, m.work
	return func() tea.Msg {
		res, err := work(ctx)
		return doneMsg[T]{result: res, err: err}
	}
}

func (m loaderModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg[T]:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel[T]) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label + "...\n"
}

// RunLoader shows a spinner labelled with label while work runs. It renders
// inline (no alt screen) and returns whatever work returned.
func RunLoader[T any](ctx context.Context, label string, work func(ctx context.Context) (T, error)) (T, error) {
	p := tea.NewProgram(newLoaderModel(ctx, label, work), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		var zero T
		return zero, err
	}
	m := final.(loaderModel[T])
	return m.result, m.err
}
