// Package tui implements the interactive review screen for
// low-confidence classifications.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kalyanig/paisa-trail/internal/cli"
	"github.com/kalyanig/paisa-trail/internal/model"
	"github.com/kalyanig/paisa-trail/internal/service"
)

// labelChoices maps the 1-6 relabel keys to labels, in display order.
var labelChoices = []model.Label{
	model.LabelFinancialTransaction,
	model.LabelFinancialAlert,
	model.LabelOTP,
	model.LabelSpam,
	model.LabelPromotional,
	model.LabelPersonal,
}

type labelAppliedMsg struct {
	index int
	label model.Label
	err   error
}

// Model is the bubbletea model for the review screen.
type Model struct {
	ctx      context.Context
	storage  service.Storage
	messages []service.ClassifiedMessage
	reviewed map[int]model.Label
	keys     KeyMap
	help     help.Model
	index    int
	width    int
	err      error
	quitting bool
}

// NewModel creates a review model over the given low-confidence
// messages.
func NewModel(ctx context.Context, storage service.Storage, messages []service.ClassifiedMessage) Model {
	return Model{
		ctx:      ctx,
		storage:  storage,
		messages: messages,
		reviewed: make(map[int]model.Label),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		width:    80,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case labelAppliedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.reviewed[msg.index] = msg.label
		return m.advance(), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.index > 0 {
				m.index--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.index < len(m.messages)-1 {
				m.index++
			}
			return m, nil

		case key.Matches(msg, m.keys.Skip):
			return m.advance(), nil

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Accept):
			if len(m.messages) == 0 {
				return m, nil
			}
			current := m.messages[m.index]
			return m, m.applyLabel(m.index, current.Result.Label, current.Result.SubLabel)

		case key.Matches(msg, m.keys.Relabel):
			if len(m.messages) == 0 {
				return m, nil
			}
			choice := int(msg.String()[0] - '1')
			if choice < 0 || choice >= len(labelChoices) {
				return m, nil
			}
			// Manual relabeling picks a broad label; the old sub-label no
			// longer applies.
			return m, m.applyLabel(m.index, labelChoices[choice], "")
		}
	}

	return m, nil
}

func (m Model) advance() Model {
	if m.index < len(m.messages)-1 {
		m.index++
	} else {
		m.quitting = true
	}
	return m
}

func (m Model) applyLabel(index int, label model.Label, subLabel string) tea.Cmd {
	id := m.messages[index].Message.ID
	return func() tea.Msg {
		err := m.storage.UpdateMessageLabel(m.ctx, id, label, subLabel)
		return labelAppliedMsg{index: index, label: label, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.messages) == 0 {
		return cli.FormatSuccess("No low-confidence messages to review.") + "\n"
	}

	current := m.messages[m.index]
	var b strings.Builder

	b.WriteString(cli.FormatTitle(fmt.Sprintf("Review %d/%d", m.index+1, len(m.messages))))
	b.WriteString("\n")

	body := current.Message.Body
	if runes := []rune(body); len(runes) > 300 {
		body = string(runes[:300]) + "…"
	}
	content := cli.KeyValueLines([][2]string{
		{"Sender", current.Message.Sender},
		{"Label", cli.StyleLabel(current.Result.Label)},
		{"Sub-label", current.Result.SubLabel},
		{"Confidence", fmt.Sprintf("%.2f", current.Result.Confidence)},
	})
	b.WriteString(cli.RenderBox("Message", lipgloss.NewStyle().Width(min(m.width-6, 74)).Render(body)+"\n\n"+content))
	b.WriteString("\n")

	if reviewed, ok := m.reviewed[m.index]; ok {
		b.WriteString(cli.FormatSuccess("recorded as " + string(reviewed)))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(cli.FormatError(m.err.Error()))
		b.WriteString("\n")
	}

	var choices []string
	for i, label := range labelChoices {
		choices = append(choices, fmt.Sprintf("%d %s", i+1, cli.StyleLabel(label)))
	}
	b.WriteString(cli.SubtleStyle.Render(strings.Join(choices, "  ")))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	return b.String()
}

// Run shows the review screen and blocks until the user quits or the
// queue is exhausted.
func Run(ctx context.Context, storage service.Storage, messages []service.ClassifiedMessage) error {
	program := tea.NewProgram(NewModel(ctx, storage, messages), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
