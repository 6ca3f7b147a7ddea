package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/econexus/econexus/internal/chat"
	"github.com/econexus/econexus/internal/models"
	"github.com/econexus/econexus/internal/render"
)

// replyMsg carries the settled result of a submission
type replyMsg struct {
	result chat.Result
}

// Model is the chat TUI state. The message thread itself lives in the Conversation.
type Model struct {
	ctx        context.Context
	conv       *chat.Conversation
	modelName  string
	renderOpts render.Options
	copyFn     func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	ready  bool
	notice string

	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(ctx context.Context, conv *chat.Conversation, modelName string, opts render.Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Stel je vraag over duurzaamheid..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctx:        ctx,
		conv:       conv,
		modelName:  modelName,
		renderOpts: opts,
		copyFn:     clipboard.WriteAll,
		textarea:   ta,
		spinner:    s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		inputHeight := 6
		statusHeight := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - 2
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+n":
			m.conv.Reset()
			m.notice = "Nieuw gesprek gestart"
			m.textarea.Reset()
			m.refresh()
			return m, nil

		case "ctrl+y":
			m.notice = m.copyLastReply()
			return m, nil

		case "enter":
			if m.conv.Busy() {
				return m, nil
			}
			p, err := m.conv.Begin(m.textarea.Value())
			if errors.Is(err, chat.ErrEmptyInput) {
				m.textarea.Reset()
				return m, nil
			}
			if err != nil {
				m.notice = "Even geduld, EcoNexus is nog bezig"
				return m, nil
			}

			m.notice = ""
			m.textarea.Reset()
			m.refresh()
			return m, tea.Batch(m.await(p), m.spinner.Tick)
		}

	case replyMsg:
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.conv.Busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			m.refresh()
			cmds = append(cmds, cmd)
		}
	}

	// Only keys reach the textarea, and not while a reply is awaited
	if _, ok := msg.(tea.KeyMsg); ok && !m.conv.Busy() {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// await resolves a pending submission off the UI goroutine
func (m Model) await(p chat.Pending) tea.Cmd {
	ctx := m.ctx
	conv := m.conv
	return func() tea.Msg {
		return replyMsg{result: conv.Await(ctx, p)}
	}
}

// copyLastReply copies the newest settled assistant message
func (m Model) copyLastReply() string {
	msgs := m.conv.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Kind == models.KindAssistant && !msgs[i].Pending {
			if err := m.copyFn(msgs[i].Text); err != nil {
				return "Kopiëren mislukt: " + err.Error()
			}
			return "Antwoord gekopieerd naar klembord"
		}
	}
	return ""
}

// refresh rebuilds the viewport content from the conversation
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// renderMessages renders every message as a labeled bubble
func (m Model) renderMessages() string {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	for i, msg := range m.conv.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}
		stamp := timeStyle.Render(" " + msg.Time.Format("15:04"))

		if msg.IsUser() {
			label := userLabelStyle.Render("● "+msg.Author) + stamp
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)
			continue
		}

		label := assistantLabelStyle.Render("✦ "+msg.Author) + stamp
		if msg.Pending {
			bubble := pendingBubbleStyle.Width(bubbleWidth).Render(m.spinner.View() + " " + msg.Text)
			content.WriteString(label + "\n" + bubble)
			continue
		}

		rendered := render.MarkdownOrPlain(msg.Text, m.renderOpts.WithWidth(bubbleWidth-4))
		bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
		content.WriteString(label + "\n" + bubble)
	}

	return content.String()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  EcoNexus wordt gestart...")
	}

	contentWidth := m.width - 4

	header := headerStyle.Width(contentWidth).Render(lipgloss.JoinHorizontal(
		lipgloss.Center,
		titleStyle.Render("✦ EcoNexus"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.modelName),
	))

	messages := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())

	var inputContent string
	if m.conv.Busy() {
		inputContent = m.spinner.View() + " " + hintStyle.Render(models.PendingText)
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render(models.AuthorUser),
			m.textarea.View(),
		)
	}
	input := inputPanelStyle.Width(contentWidth).Render(inputContent)

	return lipgloss.JoinVertical(lipgloss.Left, header, messages, input, m.renderStatusBar(contentWidth))
}

// renderStatusBar renders the connection indicator and shortcuts
func (m Model) renderStatusBar(width int) string {
	status := m.conv.Status()
	indicator := statusStyle(status).Render("● " + status.Label())

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Verstuur"},
		{"Ctrl+N", "Nieuw gesprek"},
		{"Ctrl+Y", "Kopieer"},
		{"Esc", "Stop"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	line := indicator + "   " + strings.Join(items, "  │  ")
	if m.notice != "" {
		line += "\n" + noticeStyle.Render(m.notice)
	}
	return statusBarStyle.Width(width).Render(line)
}

// RunChat starts the chat TUI
func RunChat(ctx context.Context, conv *chat.Conversation, modelName string, opts render.Options) error {
	p := tea.NewProgram(
		NewChatModel(ctx, conv, modelName, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
