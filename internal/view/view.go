// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package view

import (
	"context"
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/staranto/resload/internal/loader"
	"github.com/staranto/resload/internal/parser"
)

// LoadingText is shown while a fetch is in flight.
const LoadingText = "Loading..."

var (
	promptStyle = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// submitMsg loads whatever is in the input.
type submitMsg struct{}

// loadedMsg carries a finished load back into Update.
type loadedMsg struct {
	id  string
	res loader.Result
}

type Model struct {
	ctx    context.Context
	loader *loader.Loader
	parse  parser.Func

	input   textinput.Model
	pending string
	output  string
	failed  bool
}

// New returns a Model with id prefilled. A non-empty id is loaded as soon as
// the program starts.
func New(ctx context.Context, l *loader.Loader, parse parser.Func, id string) Model {
	ti := textinput.New()
	ti.Placeholder = "path or url"
	ti.Prompt = promptStyle.Render("id> ")
	ti.SetValue(id)
	ti.Focus()

	return Model{
		ctx:    ctx,
		loader: l,
		parse:  parse,
		input:  ti,
	}
}

func (m Model) Init() tea.Cmd {
	if m.input.Value() == "" {
		return textinput.Blink
	}
	return func() tea.Msg { return submitMsg{} }
}

// submit marks the current id pending and returns the command that waits
// for its result.
func (m *Model) submit() tea.Cmd {
	id := m.input.Value()
	if id == "" {
		return nil
	}

	m.pending = id
	m.output = LoadingText
	m.failed = false

	ch := m.loader.Load(m.ctx, id)
	return func() tea.Msg {
		return loadedMsg{id: id, res: <-ch}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			cmd := m.submit()
			return m, cmd
		}

	case submitMsg:
		cmd := m.submit()
		return m, cmd

	case loadedMsg:
		// A newer id was entered while this one was loading.
		if msg.id != m.pending {
			log.Debugf("dropping stale result for %s", msg.id)
			return m, nil
		}
		m.pending = ""
		if msg.res.Err != nil {
			log.WithError(msg.res.Err).Debugf("load %s", msg.id)
			m.output = fmt.Sprintf("could not load %s", msg.id)
			m.failed = true
			return m, nil
		}
		m.output = m.parse(msg.id, msg.res.Text)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	out := m.output
	if m.failed {
		out = errorStyle.Render(out)
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s\n",
		m.input.View(),
		out,
		helpStyle.Render("enter: load  esc: quit"),
	)
}

// Output is the text currently shown below the input.
func (m Model) Output() string {
	return m.output
}

// Run drives m until the user quits.
func Run(ctx context.Context, m Model, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	return err
}
