// Package repl implements the interactive expression evaluator over a
// resolved constant set.
package repl

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/constgen/lang"
)

const prompt = "➜ "

func helpMessage() string {
	return `
Type an expression to evaluate it, e.g. (add PAGE_SIZE 1).
Constants and operators are completion candidates.

  help     Print this cruft
  list     List declared constants with their resolved values
  clear    Clear screen
  quit     Exit REPL

Press Tab to cycle through completion candidates.
Use Up/Down arrows for history navigation.
Press Ctrl+C or Ctrl+D to exit.
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// entry is one evaluated line of the session transcript.
type entry struct {
	input  string
	output string
	failed bool
}

// model is the Bubble Tea model for the REPL.
type model struct {
	input      textinput.Model
	res        *lang.Resolution
	comp       *completer
	transcript []entry
	history    []string
	historyIdx int
	quitting   bool
}

// Run starts the REPL over the resolved constant set.
func Run(ctx context.Context, res *lang.Resolution) error {
	input := textinput.New()
	input.Prompt = promptStyle.Render(prompt)
	input.Focus()

	m := model{
		input: input,
		res:   res,
		comp:  newCompleter(res),
	}

	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd { return textinput.Blink }

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd

		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEnter:
		return m.submit()

	case tea.KeyTab:
		m.complete()

		return m, nil

	case tea.KeyUp:
		m.recall(-1)

		return m, nil

	case tea.KeyDown:
		m.recall(+1)

		return m, nil
	}

	m.comp.reset()

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// submit evaluates the current line and appends it to the transcript.
func (m model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	m.history = append(m.history, line)
	m.historyIdx = len(m.history)
	m.input.SetValue("")
	m.comp.reset()

	switch line {
	case "quit", "exit":
		m.quitting = true

		return m, tea.Quit

	case "clear":
		m.transcript = nil

		return m, nil

	case "help":
		m.transcript = append(m.transcript,
			entry{input: line, output: helpMessage()})

		return m, nil

	case "list":
		m.transcript = append(m.transcript,
			entry{input: line, output: m.listing()})

		return m, nil
	}

	v, err := m.res.Eval(line)
	if err != nil {
		m.transcript = append(m.transcript,
			entry{input: line, output: diagnostic(err), failed: true})

		return m, nil
	}

	m.transcript = append(m.transcript,
		entry{input: line, output: v.String()})

	return m, nil
}

// listing renders every declared constant with its resolved value.
func (m model) listing() string {
	var b strings.Builder

	for _, c := range m.res.Constants() {
		v, _ := m.res.Value(c.Name)

		b.WriteString(c.Name)

		if c.Type != "" {
			b.WriteString(": " + c.Type)
		}

		b.WriteString(" = " + v.String() + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// complete cycles the fuzzy completion candidates for the word under
// the cursor.
func (m *model) complete() {
	value, cursor := m.input.Value(), m.input.Position()

	replaced, newCursor, ok := m.comp.next(value, cursor)
	if !ok {
		return
	}

	m.input.SetValue(replaced)
	m.input.SetCursor(newCursor)
}

// recall navigates the input history.
func (m *model) recall(delta int) {
	if len(m.history) == 0 {
		return
	}

	m.historyIdx += delta

	switch {
	case m.historyIdx < 0:
		m.historyIdx = 0
	case m.historyIdx >= len(m.history):
		m.historyIdx = len(m.history)
		m.input.SetValue("")

		return
	}

	m.input.SetValue(m.history[m.historyIdx])
	m.input.CursorEnd()
}

// diagnostic renders an evaluation error, with the caret display when
// the error carries a source location.
func diagnostic(err error) string {
	le := &lang.Error{}
	if errors.As(err, &le) {
		if loc, ok := le.Location(); ok {
			return err.Error() + "\n" + loc.String()
		}
	}

	return err.Error()
}

// View implements tea.Model.
func (m model) View() string {
	var b strings.Builder

	for _, e := range m.transcript {
		b.WriteString(promptStyle.Render(prompt))
		b.WriteString(inputStyle.Render(e.input))
		b.WriteByte('\n')

		style := resultStyle
		if e.failed {
			style = errorStyle
		}

		b.WriteString(style.Render(e.output))
		b.WriteByte('\n')
	}

	if m.quitting {
		return b.String()
	}

	b.WriteString(m.input.View())
	b.WriteByte('\n')

	if hint := m.comp.hint(); hint != "" {
		b.WriteString(hintStyle.Render(hint))
		b.WriteByte('\n')
	}

	return b.String()
}
