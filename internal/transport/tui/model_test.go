package tui

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"image-quiz/internal/app"
	"image-quiz/internal/domain"
	"image-quiz/internal/infra/memory"
)

func TestModelPlaysToResults(t *testing.T) {
	service := newTestService()
	sessionID, err := service.Start(context.Background(), "quiz.json", 0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	opener := &recordingOpener{}
	m, err := NewModel(context.Background(), service, sessionID, Options{Opener: opener, NoColor: true})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	if !strings.Contains(m.View(), "Question 1 of 2") {
		t.Fatalf("expected first question in view:\n%s", m.View())
	}

	// first answer right, with sloppy casing, second wrong
	m = typeAnswer(t, m, "  "+strings.ToUpper(answerFor(m.screen.question.ImagePath))+" ")
	if m.feedback != "That's correct!" {
		t.Fatalf("unexpected feedback %q", m.feedback)
	}
	if !strings.Contains(m.View(), "Question 2 of 2") {
		t.Fatalf("expected second question in view:\n%s", m.View())
	}
	m = typeAnswer(t, m, "atlantis")

	summary, ok := m.Summary()
	if !ok {
		t.Fatalf("expected results after the last answer")
	}
	if summary.Rate != 50 || summary.Grade != "You pass, but there is room for improvement" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	view := m.View()
	if !strings.Contains(view, "Result: 50.00%") || !strings.Contains(view, "YES") || !strings.Contains(view, "NO") {
		t.Fatalf("unexpected results view:\n%s", view)
	}
	if len(opener.paths) != 2 {
		t.Fatalf("expected both images opened, got %v", opener.paths)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestModelCtrlCLeavesSession(t *testing.T) {
	service := newTestService()
	sessionID, err := service.Start(context.Background(), "quiz.json", 1)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	m, err := NewModel(context.Background(), service, sessionID, Options{NoColor: true})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
	if _, ok := next.(Model).Summary(); ok {
		t.Fatalf("no results expected after quitting early")
	}
	if _, err := service.CurrentImage(context.Background(), sessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}

func TestModelShowsOpenError(t *testing.T) {
	service := newTestService()
	sessionID, err := service.Start(context.Background(), "quiz.json", 1)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	opener := &recordingOpener{err: errors.New("no viewer")}
	m, err := NewModel(context.Background(), service, sessionID, Options{Opener: opener, NoColor: true})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	if !strings.Contains(m.View(), "no viewer") {
		t.Fatalf("expected open error in view:\n%s", m.View())
	}
}

func TestFormatSize(t *testing.T) {
	cases := map[int]string{
		512:     "512 B",
		2048:    "2.0 KB",
		3 << 20: "3.0 MB",
	}
	for n, want := range cases {
		if got := formatSize(n); got != want {
			t.Fatalf("formatSize(%d) = %s, want %s", n, got, want)
		}
	}
}

func typeAnswer(t *testing.T, m Model, text string) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	m = next.(Model)
	if m.input.Value() != text {
		t.Fatalf("expected input %q, got %q", text, m.input.Value())
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if err := m.Err(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	return m
}

type recordingOpener struct {
	paths []string
	err   error
}

func (o *recordingOpener) Open(_ context.Context, path string) error {
	o.paths = append(o.paths, path)
	return o.err
}

var capitals = []domain.Question{
	{ImagePath: "france.png", Answer: "paris"},
	{ImagePath: "italy.png", Answer: "rome"},
}

func answerFor(path string) string {
	for _, q := range capitals {
		if q.ImagePath == path {
			return q.Answer
		}
	}
	return ""
}

func newTestService() *app.QuizService {
	images := make(map[string]domain.Image, len(capitals))
	for _, q := range capitals {
		images[q.ImagePath] = domain.Image{Path: q.ImagePath, ContentType: "image/png", Data: []byte(q.ImagePath)}
	}
	quizzes := memory.NewQuizRepository(memory.NewStaticQuizLoader(map[string]domain.Quiz{
		"quiz.json": {ID: "quiz.json", Title: "Capitals", Questions: capitals, Images: images},
	}), 0)
	ids := 0
	return app.NewQuizService(memory.NewSessionStore(), quizzes,
		app.WithRand(rand.New(rand.NewSource(3))),
		app.WithIDGenerator(func() string {
			ids++
			return "session-" + strconv.Itoa(ids)
		}),
	)
}
