package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	settingsPath string
	numQuestions int
)

// Execute runs the CLI.
func Execute() error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("QUIZ_CONFIG")
	if envConfig == "" {
		envConfig = "config.json"
	}
	envSettings := os.Getenv("QUIZ_SETTINGS")

	var openImages bool
	cmd := &cobra.Command{
		Use:          "image-quiz",
		Short:        "Image quiz. Type the answer for each image.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), cmd.OutOrStdout(), playOptions{
				configPath:   configPath,
				settingsPath: settingsPath,
				numQuestions: numQuestions,
				openImages:   openImages,
			})
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", envConfig, "path to config file in JSON format")
	cmd.PersistentFlags().StringVar(&settingsPath, "settings", envSettings, "path to optional YAML settings")
	cmd.PersistentFlags().IntVarP(&numQuestions, "num-questions", "n", 0, "how many questions to ask (0: all questions)")
	cmd.Flags().BoolVar(&openImages, "open-images", false, "open each image in the system image viewer")
	cmd.AddCommand(NewServeCmd(&configPath, &settingsPath, &numQuestions))
	cmd.AddCommand(NewValidateCmd(&configPath, &numQuestions))
	return cmd
}
