package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// returns a new interactive chat screen
func NewChatModel() *ChatModel {
	ti := textinput.New()
	ti.Placeholder = "ask a health question..."
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorTeal)

	return &ChatModel{
		input:   ti,
		spinner: sp,
		client:  NewAPIClient(),
	}
}

func (m *ChatModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}

	if m.sessionID == "" {
		cmds = append(cmds, m.client.CreateSessionCmd())
	}

	return tea.Batch(cmds...)
}

func (m *ChatModel) Update(msg tea.Msg) (*ChatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.isFetching || m.sessionID == "" {
				return m, nil
			}

			m.isFetching = true
			m.input.SetValue("")
			m.transcript = append(m.transcript, ChatLine{Role: "user", Content: question})
			m.refreshViewport()

			return m, tea.Batch(m.spinner.Tick, m.client.AnswerCmd(m.sessionID, question))

		case "ctrl+l":
			m.transcript = nil
			m.input.SetValue("")
			m.isFetching = false
			m.refreshViewport()

			if m.sessionID != "" {
				return m, m.client.ResetCmd(m.sessionID)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 10

		viewportHeight := msg.Height - 8
		if viewportHeight < 3 {
			viewportHeight = 3
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(msg.Width-8),
		)
		if err == nil {
			m.glamourRenderer = renderer
		}

		m.refreshViewport()

	case SessionCreatedMsg:
		m.sessionID = msg.sessionID
		return m, nil

	case AnswerReceivedMsg:
		m.isFetching = false
		m.transcript = append(m.transcript, ChatLine{
			Role:    "assistant",
			Content: msg.answer,
			Sources: msg.sources,
		})
		m.shouldScrollBottom = true
		m.refreshViewport()
		m.input.Focus()
		return m, nil

	case ChatErrorMsg:
		m.isFetching = false
		m.transcript = append(m.transcript, ChatLine{
			Role:    "error",
			Content: msg.err.Error(),
		})
		m.shouldScrollBottom = true
		m.refreshViewport()
		m.input.Focus()
		return m, nil

	case SessionResetMsg:
		return m, nil

	case spinner.TickMsg:
		if m.isFetching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *ChatModel) View() string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWhite).
		Render("CAREASSIST CHAT")

	help := helpStyle.Render("[Enter: Send] [Ctrl+L: New Conversation] [Ctrl+C: Back]")

	headerLine := lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		strings.Repeat(" ", max(0, m.width-lipgloss.Width(header)-lipgloss.Width(help)-2)),
		help,
	)

	b.WriteString(headerLine)
	b.WriteString("\n\n")

	if m.ready {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	inputBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		Width(max(20, m.width-4)).
		Padding(0, 1).
		Render(m.input.View())

	b.WriteString(inputBox)
	b.WriteString("\n")

	if m.isFetching {
		b.WriteString(m.spinner.View())
		b.WriteString(infoStyle.Render(" looking through the sources..."))
	} else if m.sessionID == "" {
		b.WriteString(infoStyle.Render("connecting to server..."))
	}

	return b.String()
}

// rebuilds the viewport content from the transcript
func (m *ChatModel) refreshViewport() {
	if !m.ready {
		return
	}

	if len(m.transcript) == 0 {
		m.viewport.SetContent(infoStyle.Render(
			"ask anything about the indexed health topics. answers cite their sources."))
		return
	}

	var b strings.Builder

	for _, line := range m.transcript {
		switch line.Role {
		case "user":
			b.WriteString(userLineStyle.Render("You: " + line.Content))
			b.WriteString("\n\n")

		case "assistant":
			b.WriteString(m.renderAnswer(line))
			b.WriteString("\n")

		case "error":
			b.WriteString(refusalStyle.Render("Error: " + line.Content))
			b.WriteString("\n\n")
		}
	}

	m.viewport.SetContent(b.String())

	if m.shouldScrollBottom {
		m.viewport.GotoBottom()
		m.shouldScrollBottom = false
	}
}

func (m *ChatModel) renderAnswer(line ChatLine) string {
	content := line.Content

	if m.glamourRenderer != nil {
		if rendered, err := m.glamourRenderer.Render(content); err == nil {
			content = rendered
		}
	}

	var b strings.Builder
	b.WriteString(content)

	if len(line.Sources) > 0 {
		b.WriteString(sourceStyle.Render(formatSources(line.Sources)))
		b.WriteString("\n")
	}

	return b.String()
}

func formatSources(sources []SourceRef) string {
	var parts []string

	for _, src := range sources {
		label := fmt.Sprintf("[%s] %s", src.Kind, src.Title)
		if src.Link != "" {
			label += " (" + src.Link + ")"
		}
		parts = append(parts, label)
	}

	return "sources: " + strings.Join(parts, " | ")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
