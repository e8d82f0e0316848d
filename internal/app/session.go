package app

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"image-quiz/internal/domain"
)

// QuestionView is what a display surface receives for one question. It
// carries the image but never the expected answer.
type QuestionView struct {
	SessionID string       `json:"sessionId"`
	Number    int          `json:"number"`
	Total     int          `json:"total"`
	Title     string       `json:"title"`
	ImagePath string       `json:"imagePath"`
	Image     domain.Image `json:"-"`
}

// ValidateQuestionCount rejects a requested question count that the pool
// cannot satisfy. Zero means every question.
func ValidateQuestionCount(n, pool int) error {
	if n < 0 || n > pool {
		return &domain.QuestionCountError{Requested: n, Available: pool}
	}
	return nil
}

// Session walks one player through a sampled set of questions, strictly
// forward and exactly once each.
type Session struct {
	id        string
	quizID    string
	title     string
	questions []domain.Question
	images    map[string]domain.Image
	createdAt time.Time

	mu      sync.Mutex
	current int
	results []domain.Result
}

// NewSession samples n questions from quiz using rnd. The count is checked
// before anything is allocated.
func NewSession(id string, quiz domain.Quiz, n int, rnd *rand.Rand) (*Session, error) {
	return newSessionWithClock(id, quiz, n, rnd, time.Now)
}

func newSessionWithClock(id string, quiz domain.Quiz, n int, rnd *rand.Rand, now func() time.Time) (*Session, error) {
	if err := ValidateQuestionCount(n, len(quiz.Questions)); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	questions := sample(quiz.Questions, n, rnd)
	return &Session{
		id:        id,
		quizID:    quiz.ID,
		title:     quiz.Title,
		questions: questions,
		images:    quiz.Images,
		createdAt: now(),
		results:   make([]domain.Result, 0, len(questions)),
	}, nil
}

// sample draws n distinct questions in random order; n == 0 keeps them all.
func sample(pool []domain.Question, n int, rnd *rand.Rand) []domain.Question {
	if n == 0 {
		n = len(pool)
	}
	perm := rnd.Perm(len(pool))
	out := make([]domain.Question, n)
	for i := range out {
		out[i] = pool[perm[i]]
	}
	return out
}

func (s *Session) ID() string { return s.id }

func (s *Session) QuizID() string { return s.quizID }

func (s *Session) Title() string { return s.title }

func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Total is the number of questions this session asks.
func (s *Session) Total() int { return len(s.questions) }

// Answered is the number of answers recorded so far.
func (s *Session) Answered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Finished reports whether every question has been answered.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishedLocked()
}

func (s *Session) finishedLocked() bool {
	return s.current >= len(s.questions)
}

// Progress renders answered/total, e.g. "3/10".
func (s *Session) Progress() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%d/%d", s.current, len(s.questions))
}

// Current returns the question awaiting an answer.
func (s *Session) Current() (QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishedLocked() {
		return QuestionView{}, domain.ErrSessionFinished
	}
	q := s.questions[s.current]
	return QuestionView{
		SessionID: s.id,
		Number:    s.current + 1,
		Total:     len(s.questions),
		Title:     s.title,
		ImagePath: q.ImagePath,
		Image:     s.images[q.ImagePath],
	}, nil
}

// SubmitAnswer scores text against the current question, records the
// result and advances.
func (s *Session) SubmitAnswer(text string) (domain.AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishedLocked() {
		return domain.AnswerOutcome{}, domain.ErrSessionFinished
	}

	expected := s.questions[s.current].Answer
	correct := AnswerMatches(text, expected)
	s.results = append(s.results, domain.Result{Answer: expected, Correct: correct})
	s.current++

	return domain.AnswerOutcome{
		Correct:  correct,
		Expected: expected,
		Finished: s.finishedLocked(),
	}, nil
}

// Results returns a copy of the results recorded so far, in presentation order.
func (s *Session) Results() []domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Result, len(s.results))
	copy(out, s.results)
	return out
}
