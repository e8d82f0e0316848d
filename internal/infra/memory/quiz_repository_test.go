package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"image-quiz/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz.json": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(loader, 0)

	if _, err := repo.GetQuiz(context.Background(), "quiz.json"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	// without a TTL the entry never expires
	repo.clock = func() time.Time { return time.Now().Add(24 * time.Hour) }
	if _, err := repo.GetQuiz(context.Background(), "quiz.json"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
}

func TestQuizRepositoryReloadsAfterTTL(t *testing.T) {
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz.json": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(loader, time.Minute)
	start := time.Now()
	repo.clock = func() time.Time { return start }

	_, _ = repo.GetQuiz(context.Background(), "quiz.json")
	repo.clock = func() time.Time { return start.Add(30 * time.Second) }
	_, _ = repo.GetQuiz(context.Background(), "quiz.json")
	if loader.count() != 1 {
		t.Fatalf("expected cache hit within ttl, loader calls %d", loader.count())
	}

	repo.clock = func() time.Time { return start.Add(2 * time.Minute) }
	_, _ = repo.GetQuiz(context.Background(), "quiz.json")
	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.count())
	}
}

func TestQuizRepositoryUnknownQuiz(t *testing.T) {
	repo := NewQuizRepository(NewStaticQuizLoader(nil), 0)
	if _, err := repo.GetQuiz(context.Background(), "missing.json"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestQuizRepositoryServesStaleOnReloadError(t *testing.T) {
	loader := &flakyLoader{quiz: sampleQuiz()}
	var staleID string
	var staleErr error
	repo := NewQuizRepository(loader, time.Minute, WithStaleHandler(func(quizID string, err error) {
		staleID, staleErr = quizID, err
	}))
	start := time.Now()
	repo.clock = func() time.Time { return start }

	if _, err := repo.GetQuiz(context.Background(), "quiz.json"); err != nil {
		t.Fatalf("first load: %v", err)
	}

	loader.err = errors.New("cannot find file italy.png")
	later := start.Add(2 * time.Minute)
	repo.clock = func() time.Time { return later }
	quiz, err := repo.GetQuiz(context.Background(), "quiz.json")
	if err != nil {
		t.Fatalf("expected stale quiz, got %v", err)
	}
	if quiz.Title != "Capitals" || len(quiz.Questions) != 2 {
		t.Fatalf("unexpected stale quiz %+v", quiz)
	}
	if staleID != "quiz.json" || staleErr != loader.err {
		t.Fatalf("stale handler not called: %q %v", staleID, staleErr)
	}
	if loadedAt, ok := repo.LoadedAt("quiz.json"); !ok || !loadedAt.Equal(later) {
		t.Fatalf("expected stale entry refreshed at %v, got %v", later, loadedAt)
	}
}

func TestQuizRepositoryFirstLoadErrorIsReturned(t *testing.T) {
	boom := errors.New("malformed")
	repo := NewQuizRepository(&flakyLoader{err: boom}, time.Minute)
	if _, err := repo.GetQuiz(context.Background(), "quiz.json"); err != boom {
		t.Fatalf("expected load error, got %v", err)
	}
	if _, ok := repo.LoadedAt("quiz.json"); ok {
		t.Fatalf("failed load must not be cached")
	}
}

type flakyLoader struct {
	quiz domain.Quiz
	err  error
}

func (l *flakyLoader) LoadQuiz(context.Context, string) (domain.Quiz, error) {
	if l.err != nil {
		return domain.Quiz{}, l.err
	}
	return l.quiz, nil
}

type countingLoader struct {
	QuizLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz.json",
		Title: "Capitals",
		Questions: []domain.Question{
			{ImagePath: "france.png", Answer: "paris"},
			{ImagePath: "italy.png", Answer: "rome"},
		},
		Images: map[string]domain.Image{
			"france.png": {Path: "france.png", ContentType: "image/png", Data: []byte("fr")},
			"italy.png":  {Path: "italy.png", ContentType: "image/png", Data: []byte("it")},
		},
	}
}
