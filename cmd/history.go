package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdoc/internal/history"
	"github.com/abhisek/quizdoc/internal/quiz"
	"github.com/abhisek/quizdoc/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved quizzes and attempts",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		recs, err := rt.store.QuizRepo().ListQuizzes(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query quizzes: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No quizzes saved yet.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-16s  %-32s  %-16s  %3s  %s\n",
			"ID", "Timestamp", "Title", "Type", "Qs", "Source")
		fmt.Fprintln(out, strings.Repeat("─", 120))
		for _, r := range recs {
			fmt.Fprintf(out, "%-36s  %-16s  %-32s  %-16s  %3d  %s\n",
				r.ID,
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(r.Title, 32),
				quiz.QuestionType(r.QuizType).Label(),
				r.QuestionCount,
				r.SourceFiles,
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Print a saved quiz and its attempts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		e, err := history.Load(cmd.Context(), rt.store.QuizRepo(), args[0])
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("quiz %s not found", args[0])
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)
		fmt.Fprintf(out, "ID:        %s\n", e.Record.ID)
		fmt.Fprintf(out, "Time:      %s\n", e.Record.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Subject:   %s\n", e.Record.Subject)
		fmt.Fprintf(out, "Type:      %s\n", quiz.QuestionType(e.Record.QuizType).Label())
		if e.Record.Language != "" {
			fmt.Fprintf(out, "Language:  %s\n", e.Record.Language)
		}
		if e.Record.Difficulty != "" {
			fmt.Fprintf(out, "Difficulty: %s\n", e.Record.Difficulty)
		}
		fmt.Fprintf(out, "Source:    %s (%d chars, %s)\n", e.Record.SourceFiles, e.Record.SourceChars, e.Record.SourceHash)

		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprint(out, quiz.Transcript(e.Quiz))
		fmt.Fprintln(out, sep)

		if len(e.Attempts) == 0 {
			fmt.Fprintln(out, "No attempts.")
			return nil
		}
		fmt.Fprintln(out, "ATTEMPTS")
		for _, a := range e.Attempts {
			fmt.Fprintf(out, "  %s  %d/%d (%d%%)\n",
				a.Timestamp.Local().Format("2006-01-02 15:04"), a.Correct, a.Total, a.Percent)
			answers, err := history.DecodeAnswers(a.Answers)
			if err != nil {
				continue
			}
			for i := range e.Quiz.Questions {
				if ans, ok := answers[i]; ok && ans != "" {
					fmt.Fprintf(out, "    %d. %s\n", i+1, ans)
				}
			}
		}
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
}
