package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizdoc/internal/app"
	"github.com/abhisek/quizdoc/internal/extract"
	"github.com/abhisek/quizdoc/internal/screens/home"
	"github.com/abhisek/quizdoc/internal/screens/quizflow"
)

// runApp loads configuration, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	rt, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	ext, err := rt.extractor(ctx)
	if err != nil {
		return err
	}

	gen, status, err := rt.generator(ctx, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		return fmt.Errorf("quiz generation needs an LLM provider or a generate.endpoint")
	}

	cwd, _ := os.Getwd()
	ec := rt.cfg.Extract
	opts := app.Options{
		Status: status,
		Home: home.Deps{
			Quizzes: rt.store.QuizRepo(),
			Flow: quizflow.Deps{
				Extractor:     ext,
				Generator:     gen,
				Recorder:      rt.recorder(),
				Limits:        extract.Limits{MaxImages: ec.MaxImages, MaxPDFPages: ec.MaxPDFPages},
				Logger:        rt.logger.Named("tui"),
				TranscriptDir: cwd,
			},
		},
	}

	rt.logger.Info("starting TUI", zap.String("generator", status))
	return app.Run(opts)
}
