package tui

import (
	"context"

	"image-quiz/internal/app"
)

// ImageOpener shows an image outside the terminal.
type ImageOpener interface {
	Open(ctx context.Context, path string) error
}

// screen is the app.Presenter of the terminal surface. The model reads it
// back after every call into the service.
type screen struct {
	opener   ImageOpener
	question *app.QuestionView
	summary  *app.Summary
	openErr  error
}

func (s *screen) PresentQuestion(ctx context.Context, view app.QuestionView) error {
	s.question = &view
	s.summary = nil
	s.openErr = nil
	if s.opener != nil {
		s.openErr = s.opener.Open(ctx, view.ImagePath)
	}
	return nil
}

func (s *screen) PresentResults(_ context.Context, summary app.Summary) error {
	s.question = nil
	s.summary = &summary
	return nil
}
