package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizdoc/internal/extract"
	"github.com/abhisek/quizdoc/internal/flow"
	"github.com/abhisek/quizdoc/internal/quiz"
)

var generateCmd = &cobra.Command{
	Use:   "generate FILE...",
	Short: "Generate a quiz from files and print it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		quizType, _ := cmd.Flags().GetString("type")
		count, _ := cmd.Flags().GetInt("count")
		lang, _ := cmd.Flags().GetString("lang")
		subject, _ := cmd.Flags().GetString("subject")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		format, _ := cmd.Flags().GetString("format")
		endpoint, _ := cmd.Flags().GetString("endpoint")

		if format != "text" && format != "json" {
			return fmt.Errorf("unknown format %q (want text or json)", format)
		}
		opts, err := quiz.NewOptions(quiz.Subject(strings.ToLower(subject)), count, quizType, difficulty, lang)
		if err != nil {
			return err
		}

		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		files, err := extract.ReadFiles(args)
		if err != nil {
			return err
		}
		ext, err := rt.extractor(ctx)
		if err != nil {
			return err
		}
		gen, status, err := rt.generator(ctx, endpoint)
		if err != nil {
			return err
		}

		ec := rt.cfg.Extract
		m := flow.New(
			flow.WithLimits(extract.Limits{MaxImages: ec.MaxImages, MaxPDFPages: ec.MaxPDFPages}),
			flow.WithLogger(rt.logger),
		)
		defer m.Restart()
		runner := flow.NewRunner(m, ext, gen)

		if _, err := runner.Extract(ctx, files); err != nil {
			return err
		}
		q, err := runner.Generate(ctx, opts)
		if err != nil {
			return err
		}

		if rec := rt.recorder(); rec != nil {
			id, err := rec.SaveQuiz(ctx, m.Request(), runner.Last, m.Files())
			if err != nil {
				rt.logger.Warn("save quiz failed", zap.Error(err))
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved as %s (generated by %s)\n", id, status)
			}
		}

		out := cmd.OutOrStdout()
		if format == "json" {
			data, err := quiz.MarshalIndented(q)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		fmt.Fprint(out, quiz.Transcript(q))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("type", "t", string(quiz.MultipleChoice), "Question type: mcq, true_false or open")
	generateCmd.Flags().IntP("count", "n", 5, fmt.Sprintf("Number of questions (%d-%d)", quiz.MinQuestions, quiz.MaxQuestions))
	generateCmd.Flags().StringP("lang", "l", "", "Quiz language (default: language of the material)")
	generateCmd.Flags().String("subject", string(quiz.SubjectText), "Subject: text or math")
	generateCmd.Flags().String("difficulty", "medium", "Math difficulty: "+strings.Join(quiz.Difficulties, ", "))
	generateCmd.Flags().StringP("format", "f", "text", "Output format: text or json")
	generateCmd.Flags().String("endpoint", "", "Remote quiz endpoint URL (overrides generate.endpoint)")
}
