package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/gasbank/internal/pool"
	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/userstate"
)

var questionsCmd = &cobra.Command{
	Use:     "questions",
	Aliases: []string{"q"},
	Short:   "Browse and manage questions",
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions matching the given filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		cfg := userstate.DefaultSessionConfig()
		cfg.StatusFilter = userstate.StatusFilterAll
		f := cmd.Flags()
		cfg.SelectedCategories, _ = f.GetStringSlice("category")
		if d, _ := f.GetString("difficulty"); d != "" {
			cfg.Difficulty = d
		}
		if s, _ := f.GetString("status"); s != "" {
			cfg.StatusFilter = userstate.StatusFilter(s)
		}
		if flagged, _ := f.GetBool("flagged"); flagged {
			cfg.FlagFilter = userstate.FlagFilterFlagged
		}
		cfg.OnlyCustom, _ = f.GetBool("custom")
		cfg = cfg.Normalize()

		st, bank := e.coord.State(), e.coord.Bank()
		ids := pool.SelectEligible(pool.FromState(cfg, bank, st))

		fmt.Printf("%-14s  %-18s  %-10s  %-10s  %s\n", "ID", "Category", "Difficulty", "Status", "Question")
		fmt.Println(strings.Repeat("─", 100))
		for _, id := range ids {
			q, _ := bank.Get(id)
			status := string(st.StatusOf(id))
			if st.IsFlagged(id) {
				status += " ⚑"
			}
			fmt.Printf("%-14s  %-18s  %-10s  %-10s  %s\n",
				q.ID, clip(q.Category, 18), q.NormalizedDifficulty(), status, clip(q.Text, 40))
		}
		fmt.Printf("\n%d questions\n", len(ids))
		return nil
	},
}

var questionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom question",
	Example: `  gasbank questions add --text "Drug of choice for MH?" \
    --answer Dantrolene --answer Propofol --answer Succinylcholine --correct 1 \
    --category Pharmacology --difficulty easy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		text, _ := f.GetString("text")
		answers, _ := f.GetStringArray("answer")
		correct, _ := f.GetInt("correct")
		if correct < 1 || correct > len(answers) {
			return fmt.Errorf("--correct must be between 1 and the number of answers (%d)", len(answers))
		}

		q := question.Question{Text: text}
		q.ID, _ = f.GetString("id")
		q.Category, _ = f.GetString("category")
		q.Subcategory, _ = f.GetString("subcategory")
		q.Difficulty, _ = f.GetString("difficulty")
		q.Didactic, _ = f.GetString("didactic")
		q.EducationalObjective, _ = f.GetString("objective")
		for i, a := range answers {
			q.Answers = append(q.Answers, question.AnswerChoice{Text: a, IsCorrect: i == correct-1})
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		printNotices(e.coord)

		created, err := e.coord.CreateQuestion(q)
		if err != nil {
			return err
		}
		fmt.Println(created.ID)
		return nil
	},
}

var questionsFlagCmd = &cobra.Command{
	Use:   "flag <id>",
	Short: "Toggle the review flag of a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		if _, ok := e.coord.Question(args[0]); !ok {
			return fmt.Errorf("unknown question %q", args[0])
		}
		printNotices(e.coord)
		_, err = e.coord.ToggleFlag(args[0])
		return err
	},
}

var questionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete custom questions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		printNotices(e.coord)
		_, err = e.coord.DeleteCustomQuestions(args)
		return err
	},
}

var questionsResetCmd = &cobra.Command{
	Use:   "reset-history <id>...",
	Short: "Clear the attempt history of questions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		printNotices(e.coord)
		_, err = e.coord.ResetHistory(args)
		return err
	},
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	questionsListCmd.Flags().StringSlice("category", nil, "Filter by category (repeatable)")
	questionsListCmd.Flags().String("difficulty", "", "Filter by difficulty")
	questionsListCmd.Flags().String("status", "", "Filter by status: all, unanswered or incorrect")
	questionsListCmd.Flags().Bool("flagged", false, "Only flagged questions")
	questionsListCmd.Flags().Bool("custom", false, "Only custom questions")

	questionsAddCmd.Flags().String("id", "", "Question ID (generated when empty)")
	questionsAddCmd.Flags().String("text", "", "Question text (required)")
	questionsAddCmd.Flags().StringArray("answer", nil, "Answer choice, in order (repeat 2+ times)")
	questionsAddCmd.Flags().Int("correct", 0, "1-based index of the correct answer (required)")
	questionsAddCmd.Flags().String("category", "", "Category")
	questionsAddCmd.Flags().String("subcategory", "", "Subcategory")
	questionsAddCmd.Flags().String("difficulty", "", "Difficulty (default medium)")
	questionsAddCmd.Flags().String("didactic", "", "Teaching notes shown after answering")
	questionsAddCmd.Flags().String("objective", "", "Educational objective")
	_ = questionsAddCmd.MarkFlagRequired("text")
	_ = questionsAddCmd.MarkFlagRequired("correct")

	questionsCmd.AddCommand(questionsListCmd)
	questionsCmd.AddCommand(questionsAddCmd)
	questionsCmd.AddCommand(questionsFlagCmd)
	questionsCmd.AddCommand(questionsDeleteCmd)
	questionsCmd.AddCommand(questionsResetCmd)
}
