package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"image-quiz/internal/domain"
)

// QuizLoader fetches quiz content from its source (the config file on disk).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizRepository keeps loaded quizzes, images included, so a configuration
// is read once per TTL. A non-positive TTL keeps entries forever.
//
// When a reload fails, for example because config.json was edited into an
// invalid state while serving, the last good quiz keeps being served for
// another TTL and the failure is reported through the stale handler.
type QuizRepository struct {
	loader  QuizLoader
	ttl     time.Duration
	clock   func() time.Time
	onStale func(quizID string, err error)
	sf      singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	loadedAt  time.Time
	expiresAt time.Time // zero never expires
}

func (c cachedQuiz) fresh(now time.Time) bool {
	return c.expiresAt.IsZero() || c.expiresAt.After(now)
}

// RepositoryOption customizes a QuizRepository.
type RepositoryOption func(*QuizRepository)

// WithStaleHandler is called whenever a failed reload falls back to the
// previously loaded quiz.
func WithStaleHandler(fn func(quizID string, err error)) RepositoryOption {
	return func(r *QuizRepository) { r.onStale = fn }
}

func NewQuizRepository(loader QuizLoader, ttl time.Duration, opts ...RepositoryOption) *QuizRepository {
	r := &QuizRepository{
		loader:  loader,
		ttl:     ttl,
		clock:   time.Now,
		onStale: func(string, error) {},
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedQuiz),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if entry, ok := r.lookup(quizID); ok && entry.fresh(r.clock()) {
		return entry.quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		now := r.clock()
		previous, cached := r.lookup(quizID)
		if cached && previous.fresh(now) {
			return previous.quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			if !cached {
				return domain.Quiz{}, err
			}
			r.onStale(quizID, err)
			quiz = previous.quiz
		}
		r.store(quizID, quiz, now)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// LoadedAt reports when quizID was last (re)stored in the cache.
func (r *QuizRepository) LoadedAt(quizID string) (time.Time, bool) {
	entry, ok := r.lookup(quizID)
	return entry.loadedAt, ok
}

func (r *QuizRepository) lookup(quizID string) (cachedQuiz, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[quizID]
	return entry, ok
}

func (r *QuizRepository) store(quizID string, quiz domain.Quiz, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := cachedQuiz{quiz: quiz, loadedAt: now}
	if r.ttl > 0 {
		// up to 10% jitter so quizzes loaded together do not all reload together
		jitter := time.Duration(r.rnd.Int63n(int64(r.ttl)/10 + 1))
		entry.expiresAt = now.Add(r.ttl + jitter)
	}
	r.cache[quizID] = entry
}

// StaticQuizLoader serves quizzes from a map, for tests and demos.
type StaticQuizLoader struct {
	quizzes map[string]domain.Quiz
}

func NewStaticQuizLoader(quizzes map[string]domain.Quiz) *StaticQuizLoader {
	return &StaticQuizLoader{quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := l.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}
