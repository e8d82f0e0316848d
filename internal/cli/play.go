package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"image-quiz/internal/app"
	"image-quiz/internal/config"
	"image-quiz/internal/domain"
	"image-quiz/internal/infra/file"
	"image-quiz/internal/infra/memory"
	"image-quiz/internal/infra/viewer"
	"image-quiz/internal/logger"
	"image-quiz/internal/transport/tui"
)

type playOptions struct {
	configPath   string
	settingsPath string
	numQuestions int
	openImages   bool
}

func runPlay(ctx context.Context, out io.Writer, opts playOptions) error {
	cfg, err := config.Load(opts.settingsPath)
	if err != nil {
		return err
	}
	log, err := logger.NewTerminal(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	quizzes := memory.NewQuizRepository(file.NewQuizLoader(), 0)
	quiz, err := loadQuiz(ctx, quizzes, opts.configPath, opts.numQuestions, log)
	if err != nil {
		return err
	}

	service := app.NewQuizService(memory.NewSessionStore(), quizzes, app.WithLogger(log))
	sessionID, err := service.Start(ctx, quiz.ID, opts.numQuestions)
	if err != nil {
		return err
	}

	tuiOpts := tui.Options{}
	if opts.openImages || cfg.Quiz.OpenImages {
		tuiOpts.Opener = viewer.NewLauncher()
	}
	model, err := tui.NewModel(ctx, service, sessionID, tuiOpts)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	played := final.(tui.Model)
	if err := played.Err(); err != nil {
		return err
	}
	if summary, ok := played.Summary(); ok {
		printSummary(out, summary)
	}
	return nil
}

// loadQuiz reads the configuration and every image up front and checks the
// requested question count, so nothing interactive starts on bad input.
func loadQuiz(ctx context.Context, quizzes app.QuizRepository, path string, n int, log *zap.Logger) (domain.Quiz, error) {
	quiz, err := quizzes.GetQuiz(ctx, path)
	if err != nil {
		return domain.Quiz{}, err
	}
	for _, warning := range config.Lint(domain.Configuration{Title: quiz.Title, Questions: quiz.Questions}) {
		log.Warn("config lint", zap.String("warning", warning))
	}
	if err := app.ValidateQuestionCount(n, len(quiz.Questions)); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func printSummary(out io.Writer, summary app.Summary) {
	fmt.Fprintln(out, summary.Title)
	fmt.Fprintln(out, app.FormatRate(summary.Rate))
	fmt.Fprintln(out, summary.Grade)
	for i, r := range summary.Results {
		fmt.Fprintf(out, "%3d  %-30s %s\n", i+1, app.DisplayAnswer(r.Answer), app.YesNo(r.Correct))
	}
}
