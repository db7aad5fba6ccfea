package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotlist/internal/shared"
	"github.com/mattn/go-isatty"
)

// Prompt describes one question asked of the user.
type Prompt struct {
	Question    string
	Placeholder string
	Required    bool // Reject empty answers
}

// Prompter asks the user a question and returns the trimmed answer.
type Prompter interface {
	Ask(ctx context.Context, prompt Prompt) (string, error)
}

// NewPrompter returns a [TerminalPrompter] when in is a terminal and a [LinePrompter] otherwise.
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return &TerminalPrompter{in: in, out: out}
	}
	return NewLinePrompter(in, out)
}

// TerminalPrompter renders prompts as a bubbletea text input.
type TerminalPrompter struct {
	in  io.Reader
	out io.Writer
}

func (p *TerminalPrompter) Ask(ctx context.Context, prompt Prompt) (string, error) {
	program := tea.NewProgram(
		newPromptModel(prompt),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return "", fmt.Errorf("%w: %w", shared.ErrPromptAborted, err)
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := final.(promptModel)
	if !ok || m.aborted {
		return "", shared.ErrPromptAborted
	}
	return m.Value(), nil
}

// LinePrompter reads answers line by line, for piped input.
type LinePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{reader: bufio.NewReader(in), out: out}
}

// Ask writes the question and reads one line. Required prompts ask again on empty answers until input ends.
func (p *LinePrompter) Ask(ctx context.Context, prompt Prompt) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", shared.ErrPromptAborted, err)
		}

		fmt.Fprintf(p.out, "%s ", prompt.Question)

		line, err := p.reader.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(p.out)
			return "", fmt.Errorf("%w: %v", shared.ErrPromptAborted, err)
		}

		if answer == "" && prompt.Required {
			if errors.Is(err, io.EOF) {
				return "", shared.ErrPromptAborted
			}
			fmt.Fprintln(p.out, Warn("A value is required."))
			continue
		}
		return answer, nil
	}
}

// promptModel is the bubbletea model behind [TerminalPrompter].
type promptModel struct {
	prompt  Prompt
	input   textinput.Model
	help    help.Model
	keys    keyMap
	done    bool
	aborted bool
	warning string
}

var _ tea.Model = promptModel{}

func newPromptModel(prompt Prompt) promptModel {
	input := textinput.New()
	input.Placeholder = prompt.Placeholder
	input.CharLimit = 200
	input.Prompt = "> "
	input.Focus()

	return promptModel{
		prompt: prompt,
		input:  input,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.quit):
			m.aborted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.submit):
			if m.prompt.Required && m.Value() == "" {
				m.warning = "A value is required."
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		}
	}

	m.warning = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(Title(m.prompt.Question))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.warning != "" {
		b.WriteString(Warn(m.warning))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Value returns the trimmed input.
func (m promptModel) Value() string {
	return strings.TrimSpace(m.input.Value())
}
