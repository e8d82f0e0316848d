package app

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"image-quiz/internal/domain"
)

// SessionRepository abstracts where live quiz sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuizRepository loads validated quiz content, images included.
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// Presenter is a display surface. The service tells it what to show after
// a session starts and after every answer.
type Presenter interface {
	PresentQuestion(ctx context.Context, view QuestionView) error
	PresentResults(ctx context.Context, summary Summary) error
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	logger   *zap.Logger
	newID    func() string

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option customizes a QuizService.
type Option func(*QuizService)

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *QuizService) { s.logger = logger }
}

// WithRand injects the random source used to sample questions.
func WithRand(rnd *rand.Rand) Option {
	return func(s *QuizService) { s.rnd = rnd }
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *QuizService) { s.newID = newID }
}

func NewQuizService(store SessionRepository, quizzes QuizRepository, opts ...Option) *QuizService {
	s := &QuizService{
		sessions: store,
		quizzes:  quizzes,
		logger:   zap.NewNop(),
		newID:    uuid.NewString,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QuestionCount returns the size of a quiz's question pool.
func (s *QuizService) QuestionCount(ctx context.Context, quizID string) (int, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return 0, err
	}
	return len(quiz.Questions), nil
}

// Start creates a session asking n questions of quizID (0 means all of them)
// and returns its id.
func (s *QuizService) Start(ctx context.Context, quizID string, n int) (string, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return "", err
	}
	if err := ValidateQuestionCount(n, len(quiz.Questions)); err != nil {
		return "", err
	}

	// rand.Rand is not safe for concurrent use.
	s.mu.Lock()
	session, err := NewSession(s.newID(), quiz, n, s.rnd)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	s.sessions.Save(session)
	s.logger.Info("session started",
		zap.String("session", session.ID()),
		zap.String("quiz", quizID),
		zap.Int("questions", session.Total()),
	)
	return session.ID(), nil
}

// SubmitAnswer records an answer for the current question of a session.
func (s *QuizService) SubmitAnswer(_ context.Context, sessionID, text string) (domain.AnswerOutcome, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerOutcome{}, domain.ErrSessionNotFound
	}
	outcome, err := session.SubmitAnswer(text)
	if err != nil {
		return domain.AnswerOutcome{}, err
	}
	s.sessions.Save(session)
	s.logger.Debug("answer submitted",
		zap.String("session", sessionID),
		zap.Bool("correct", outcome.Correct),
		zap.String("progress", session.Progress()),
	)
	return outcome, nil
}

// Present shows the current question, or the results once the session is
// finished. A session is discarded after its results were presented.
func (s *QuizService) Present(ctx context.Context, sessionID string, p Presenter) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	view, err := session.Current()
	if err == nil {
		return p.PresentQuestion(ctx, view)
	}
	if !errors.Is(err, domain.ErrSessionFinished) {
		return err
	}

	summary, err := Summarize(session.Title(), session.Results())
	if err != nil {
		return err
	}
	if err := p.PresentResults(ctx, summary); err != nil {
		return err
	}
	s.sessions.Delete(sessionID)
	s.logger.Info("session finished",
		zap.String("session", sessionID),
		zap.Float64("rate", summary.Rate),
		zap.Duration("elapsed", time.Since(session.CreatedAt())),
	)
	return nil
}

// CurrentImage returns the image of the question a session is waiting on.
func (s *QuizService) CurrentImage(_ context.Context, sessionID string) (domain.Image, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Image{}, domain.ErrSessionNotFound
	}
	view, err := session.Current()
	if err != nil {
		return domain.Image{}, err
	}
	return view.Image, nil
}

// Leave drops a session that was abandoned before its results were shown.
func (s *QuizService) Leave(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	s.sessions.Delete(sessionID)
	s.logger.Info("session abandoned",
		zap.String("session", sessionID),
		zap.String("progress", session.Progress()),
	)
}
