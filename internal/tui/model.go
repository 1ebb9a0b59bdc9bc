package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"supportbot/internal/domain"
	"supportbot/internal/session"
)

// BotPort is the TUI-facing subset of the support bot service.
type BotPort interface {
	UploadFile(ctx context.Context, path string) error
	Submit(ctx context.Context, text string) error
	Transcript() []domain.Turn
	Mode() session.Mode
	LogFile() (string, error)
}

// doneMsg reports the end of a service call.
type doneMsg struct{ err error }

type logMsg struct {
	path string
	err  error
}

// Model is the Bubble Tea model for the chat.
type Model struct {
	service  BotPort
	input    textinput.Model
	viewport viewport.Model
	status   string
	busy     bool
	ready    bool
}

// New creates a new TUI model instance.
func New(service BotPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{service: service, input: ti, viewport: vp}
	m.refreshPrompt()
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input box, input line
		vh := msg.Height - reserved - th
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh)
		m.refreshTranscript()
		return m, nil
	case doneMsg:
		m.busy = false
		m.status = ""
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		}
		m.refreshTranscript()
		m.refreshPrompt()
		return m, nil
	case logMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = "Log written to " + msg.path
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			if m.busy {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			m.busy = true
			m.status = "Working..."
			return m, m.dispatch(text)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// dispatch turns a line of input into a service call that runs off the UI loop.
func (m Model) dispatch(text string) tea.Cmd {
	svc := m.service
	switch {
	case text == "/log":
		return func() tea.Msg {
			path, err := svc.LogFile()
			return logMsg{path: path, err: err}
		}
	case strings.HasPrefix(text, "/upload "):
		path := strings.TrimSpace(strings.TrimPrefix(text, "/upload "))
		return func() tea.Msg {
			return doneMsg{err: svc.UploadFile(context.Background(), path)}
		}
	default:
		return func() tea.Msg {
			return doneMsg{err: svc.Submit(context.Background(), text)}
		}
	}
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Support Bot") + "  " + helpStyle.Render("/upload <path>  /log  ctrl+c quit")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refreshTranscript() {
	m.viewport.SetContent(renderTranscript(m.service.Transcript(), m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m *Model) refreshPrompt() {
	switch m.service.Mode() {
	case session.ModeWaitingForUpload:
		m.input.Placeholder = "/upload path/to/faq.pdf"
	case session.ModeWaitingForFeedback:
		m.input.Placeholder = "good, too vague or not helpful"
	default:
		m.input.Placeholder = "Ask a question and press Enter"
	}
}

func renderTranscript(turns []domain.Turn, width int) string {
	body := lipgloss.NewStyle().Width(max(10, width-4))
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := botStyle.Render(string(t.Speaker) + ":")
		if t.Speaker == domain.SpeakerUser {
			label = userStyle.Render(string(t.Speaker) + ":")
		}
		b.WriteString(fmt.Sprintf("%s\n%s", label, body.Render(t.Text)))
	}
	return b.String()
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	helpStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
