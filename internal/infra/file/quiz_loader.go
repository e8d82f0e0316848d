package file

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"
	"image-quiz/internal/config"
	"image-quiz/internal/domain"
)

const defaultReadConcurrency = 8

// QuizLoader loads quiz documents from disk. The quiz id is the path of the
// JSON configuration.
type QuizLoader struct {
	concurrency int
}

func NewQuizLoader() *QuizLoader {
	return &QuizLoader{concurrency: defaultReadConcurrency}
}

// LoadQuiz parses and validates the configuration, then reads every image.
// Any unreadable image fails the whole load.
func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	doc, err := config.LoadQuiz(quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	cfg, err := config.Validate(doc)
	if err != nil {
		return domain.Quiz{}, err
	}

	paths := make([]string, 0, len(cfg.Questions))
	for _, q := range cfg.Questions {
		paths = append(paths, q.ImagePath)
	}
	images, err := l.readImages(ctx, paths)
	if err != nil {
		return domain.Quiz{}, err
	}

	return domain.Quiz{
		ID:        quizID,
		Title:     cfg.Title,
		Questions: cfg.Questions,
		Images:    images,
	}, nil
}

func (l *QuizLoader) readImages(ctx context.Context, paths []string) (map[string]domain.Image, error) {
	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}

	loaded := make([]domain.Image, len(unique))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, p := range unique {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := readImage(p)
			if err != nil {
				return err
			}
			loaded[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	images := make(map[string]domain.Image, len(loaded))
	for _, img := range loaded {
		images[img.Path] = img
	}
	return images, nil
}

func readImage(path string) (domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Image{}, fmt.Errorf("load image %s: %w", path, err)
	}
	return domain.Image{
		Path:        path,
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}
