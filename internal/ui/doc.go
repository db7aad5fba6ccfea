// Package ui implements the interactive prompts of the create command.
//
// [TerminalPrompter] runs a small bubbletea program per question: a [textinput.Model] with contextual help
// from charmbracelet/bubbles/help. Enter submits, esc or ctrl+c cancels with [shared.ErrPromptAborted].
// When stdin is not a terminal, [NewPrompter] falls back to [LinePrompter], which reads one line per answer.
//
// Output styling uses a small lipgloss [Palette] shared with the command layer.
package ui
