package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"image-quiz/internal/app"
	"image-quiz/internal/config"
	"image-quiz/internal/domain"
	"image-quiz/internal/infra/file"
)

// NewValidateCmd checks a quiz configuration without playing it.
func NewValidateCmd(configPath *string, numQuestions *int) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the quiz configuration and its images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), cmd.OutOrStdout(), *configPath, *numQuestions)
		},
	}
}

func runValidate(ctx context.Context, out io.Writer, configPath string, numQuestions int) error {
	quiz, err := file.NewQuizLoader().LoadQuiz(ctx, configPath)
	if err != nil {
		return err
	}
	if err := app.ValidateQuestionCount(numQuestions, len(quiz.Questions)); err != nil {
		return err
	}
	for _, warning := range config.Lint(domain.Configuration{Title: quiz.Title, Questions: quiz.Questions}) {
		fmt.Fprintln(out, "warning:", warning)
	}
	fmt.Fprintf(out, "%s: %q with %d questions\n", configPath, quiz.Title, len(quiz.Questions))
	return nil
}
