package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"image-quiz/internal/app"
)

const maxTableHeight = 12

// Options configures the terminal quiz.
type Options struct {
	Opener  ImageOpener
	NoColor bool
}

// Model plays one quiz session in the terminal using Bubble Tea.
type Model struct {
	ctx       context.Context
	service   *app.QuizService
	sessionID string
	screen    *screen

	input    textinput.Model
	results  table.Model
	feedback string
	correct  bool
	width    int
	noColor  bool
	err      error
}

// NewModel presents the first question of sessionID.
func NewModel(ctx context.Context, service *app.QuizService, sessionID string, opts Options) (Model, error) {
	ti := textinput.New()
	ti.Placeholder = "type your answer"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Focus()

	m := Model{
		ctx:       ctx,
		service:   service,
		sessionID: sessionID,
		screen:    &screen{opener: opts.Opener},
		input:     ti,
		noColor:   opts.NoColor,
	}
	if err := service.Present(ctx, sessionID, m.screen); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes key presses to the answer input or the results table.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.input.Width = max(typed.Width-4, 10)
		return m, nil
	case tea.KeyMsg:
		if typed.Type == tea.KeyCtrlC {
			if m.screen.summary == nil {
				m.service.Leave(m.ctx, m.sessionID)
			}
			return m, tea.Quit
		}
		if m.screen.summary != nil {
			switch typed.String() {
			case "enter", "esc", "q":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.results, cmd = m.results.Update(msg)
			return m, cmd
		}
		if typed.Type == tea.KeyEnter {
			return m.submit()
		}
	}

	if m.screen.summary != nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	outcome, err := m.service.SubmitAnswer(m.ctx, m.sessionID, m.input.Value())
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.feedback = app.Feedback(outcome)
	m.correct = outcome.Correct
	m.input.Reset()

	if err := m.service.Present(m.ctx, m.sessionID, m.screen); err != nil {
		m.err = err
		return m, tea.Quit
	}
	if m.screen.summary != nil {
		m.input.Blur()
		m.results = newResultsTable(*m.screen.summary, m.noColor)
	}
	return m, nil
}

// View renders the current question or the results.
func (m Model) View() string {
	if m.screen.summary != nil {
		return renderResults(*m.screen.summary, m.results, m.noColor)
	}
	if m.screen.question == nil {
		return ""
	}
	return renderQuestion(m, *m.screen.question)
}

// Summary returns the results once the session has finished.
func (m Model) Summary() (app.Summary, bool) {
	if m.screen.summary == nil {
		return app.Summary{}, false
	}
	return *m.screen.summary, true
}

// Err returns the error that stopped the program, if any.
func (m Model) Err() error { return m.err }

func newResultsTable(summary app.Summary, noColor bool) table.Model {
	rows := make([]table.Row, 0, len(summary.Results))
	answerWidth := len("Question")
	for i, r := range summary.Results {
		answer := app.DisplayAnswer(r.Answer)
		answerWidth = max(answerWidth, len(answer))
		rows = append(rows, table.Row{strconv.Itoa(i + 1), answer, app.YesNo(r.Correct)})
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: max(len(strconv.Itoa(len(rows))), 2)},
			{Title: "Question", Width: answerWidth},
			{Title: "Correct", Width: len("Correct")},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows), maxTableHeight)+1),
	)
	t.SetStyles(tableStyles(noColor))
	return t
}
