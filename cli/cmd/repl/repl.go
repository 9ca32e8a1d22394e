// Package repl implements the interactive expression scratchpad.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/endarthur/spinifex-sub001/lang"
	"github.com/endarthur/spinifex-sub001/log"
)

const prompt = "➜ "

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	loweredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func helpMessage() string {
	return `
Type a band-math expression to inspect it:
  its canonical form, declarative lowering, and value (when constant).

  Band references (b1, b2, ...) and variables lower but do not evaluate.
  Press Tab to complete a function name.
  Use Up/Down arrows for history navigation.
  Commands: :help  :funcs  :quit (or Ctrl+D)
`
}

// Options configures the scratchpad.
type Options struct {
	Strict bool
	Logger log.Logger
}

// model is the Bubble Tea model for the scratchpad.
type model struct {
	input      textinput.Model
	transcript []string
	history    []string
	historyIdx int
	hint       string
	strict     bool
	logger     log.Logger
	quitting   bool
}

// Run starts the scratchpad and blocks until the user exits.
func Run(ctx context.Context, opts Options) error {
	opts.Logger.TraceContext(ctx, "repl start",
		slog.Bool("strict", opts.Strict),
	)

	input := textinput.New()
	input.Prompt = promptStyle.Render(prompt)
	input.TextStyle = inputStyle
	input.Focus()

	m := model{
		input:      input,
		transcript: []string{hintStyle.Render(helpMessage())},
		strict:     opts.Strict,
		logger:     opts.Logger,
	}

	program := tea.NewProgram(m, tea.WithContext(ctx))

	_, err := program.Run()

	opts.Logger.TraceContext(ctx, "repl stop")

	return err
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd { return textinput.Blink }

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd

		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	switch keyMsg.Type {
	case tea.KeyCtrlD:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.hint = ""

		return m, nil

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

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.hint = completionHint(m.input.Value(), m.input.Position())

	return m, cmd
}

// submit consumes the current line and appends its report to the
// transcript.
func (m model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.hint = ""

	if line == "" {
		return m, nil
	}

	m.history = append(m.history, line)
	m.historyIdx = len(m.history)

	echo := promptStyle.Render(prompt) + inputStyle.Render(line)

	switch line {
	case ":quit", ":q":
		m.quitting = true

		return m, tea.Quit

	case ":help", ":h":
		m.transcript = append(m.transcript, echo,
			hintStyle.Render(helpMessage()))

		return m, nil

	case ":funcs":
		m.transcript = append(m.transcript, echo,
			hintStyle.Render("  "+strings.Join(lang.FuncNames(), " ")))

		return m, nil
	}

	m.transcript = append(m.transcript, echo, renderReport(line, m.strict))

	return m, nil
}

// recall moves through the input history.
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

// complete replaces the word at the cursor with its best function-name
// completion.
func (m *model) complete() {
	value := m.input.Value()
	cursor := m.input.Position()

	word, start, end := wordBounds(value, cursor)
	if word == "" {
		return
	}

	match, ok := bestMatch(word)
	if !ok {
		return
	}

	m.input.SetValue(value[:start] + match + value[end:])
	m.input.SetCursor(start + len(match))
	m.hint = ""
}

// renderReport parses one line and renders its canonical form, lowering,
// and constant value.
func renderReport(line string, strict bool) string {
	rep, err := report(line, strict)
	if err != nil {
		return errorStyle.Render(indent(err.Error()))
	}

	var b strings.Builder

	fmt.Fprintf(&b, "  %s\n", resultStyle.Render(rep.Canonical))

	if rep.Lowered != "" {
		fmt.Fprintf(&b, "  %s\n", loweredStyle.Render(rep.Lowered))
	} else {
		fmt.Fprintf(&b, "  %s\n", errorStyle.Render(rep.LowerErr))
	}

	if rep.HasValue {
		fmt.Fprintf(&b, "  %s\n", resultStyle.Render(rep.Value))
	}

	return strings.TrimRight(b.String(), "\n")
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}

	return strings.Join(lines, "\n")
}

// View implements tea.Model.
func (m model) View() string {
	var b strings.Builder

	for _, entry := range m.transcript {
		b.WriteString(entry)
		b.WriteByte('\n')
	}

	if m.quitting {
		return b.String()
	}

	b.WriteString(m.input.View())
	b.WriteByte('\n')

	if m.hint != "" {
		b.WriteString(hintStyle.Render("  " + m.hint))
		b.WriteByte('\n')
	}

	return b.String()
}
