package tui

import (
	"context"
	"strings"

	"gita-assistant/internal/domain/entity"
	"gita-assistant/internal/usecase"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Asker is the TUI-facing subset of the pipeline.
type Asker interface {
	Run(ctx context.Context, query string) *entity.Completion
}

type turn struct {
	question string
	lang     entity.Language
	parsed   entity.ParsedResponse
}

type answerMsg struct {
	question string
	lang     entity.Language
	parsed   entity.ParsedResponse
}

// Model is the Bubble Tea model of the chat screen.
type Model struct {
	ctx          context.Context
	asker        Asker
	input        textinput.Model
	viewport     viewport.Model
	spinner      spinner.Model
	turns        []turn
	pending      string
	showThinking bool
	ready        bool
}

func New(ctx context.Context, asker Asker) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the Bhagavad Gita (English or हिंदी)"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	return Model{
		ctx:          ctx,
		asker:        asker,
		input:        ti,
		viewport:     viewport.New(0, 0),
		spinner:      sp,
		showThinking: true,
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// ask runs the pipeline off the UI goroutine.
func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		lang := usecase.DetectLanguage(question)
		completion := m.asker.Run(m.ctx, question)
		return answerMsg{
			question: question,
			lang:     lang,
			parsed:   usecase.ParseResponse(m.ctx, completion.Text, lang),
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := chatBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header, help, input box, spacer
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = max(3, msg.Height-reserved-fh)
		m.refresh()
		return m, nil
	case answerMsg:
		m.turns = append(m.turns, turn(msg))
		m.pending = ""
		m.refresh()
		return m, nil
	case spinner.TickMsg:
		if m.pending == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyCtrlL:
			m.turns = nil
			m.refresh()
			return m, nil
		case tea.KeyTab:
			m.showThinking = !m.showThinking
			m.refresh()
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case tea.KeyEnter:
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.pending != "" {
				return m, nil
			}
			m.pending = q
			m.input.Reset()
			m.refresh()
			return m, tea.Batch(m.spinner.Tick, m.ask(q))
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

func (m Model) renderConversation() string {
	if len(m.turns) == 0 && m.pending == "" {
		return mutedStyle.Render("Namaste. Ask a question to begin.")
	}
	var sb strings.Builder
	for _, t := range m.turns {
		sb.WriteString(userStyle.Render("You: ") + t.question + "\n\n")
		if m.showThinking && t.parsed.Reasoning != "" {
			sb.WriteString(thinkingStyle.Render("Thinking:\n"+t.parsed.Reasoning) + "\n\n")
		}
		sb.WriteString(assistantStyle.Render("Gita: ") + t.parsed.Answer + "\n\n")
	}
	if m.pending != "" {
		sb.WriteString(userStyle.Render("You: ") + m.pending + "\n\n")
		sb.WriteString(m.spinner.View() + " " + mutedStyle.Render("Contemplating..."))
	}
	return lipgloss.NewStyle().Width(m.viewport.Width).Render(sb.String())
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Bhagavad Gita Assistant")
	thinking := "on"
	if !m.showThinking {
		thinking = "off"
	}
	help := mutedStyle.Render("enter ask • tab thinking (" + thinking + ") • ctrl+l clear • ctrl+c quit")
	return header + "\n" + chatBoxStyle.Render(m.viewport.View()) + "\n" + queryBoxStyle.Render(m.input.View()) + "\n" + help
}

var (
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	thinkingStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
