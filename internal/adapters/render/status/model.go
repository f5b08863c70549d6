package status

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

// renderedMsg carries the finished view back into the program.
type renderedMsg string

type model struct {
	rows   []AccountRow
	tally  tally
	opts   RenderOptions
	styles styles
	output string
}

func newModel(rows []AccountRow, opts RenderOptions) model {
	return model{
		rows:   rows,
		tally:  countVerdicts(rows),
		opts:   opts,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	rows, t, opts, s := m.rows, m.tally, m.opts, m.styles
	return func() tea.Msg {
		return renderedMsg(renderView(rows, t, opts, s))
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	out, ok := msg.(renderedMsg)
	if !ok {
		return m, nil
	}

	m.output = string(out)
	return m, tea.Quit
}

func (m model) View() string {
	return m.output
}

// Render draws the accounts overview through a one-shot bubbletea program.
func Render(rows []AccountRow, opts RenderOptions) (string, error) {
	finalModel, err := tea.NewProgram(
		newModel(rows, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	).Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
