package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/gasbank/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show performance statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		sum := e.coord.Summary()
		rows := e.coord.Breakdown()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Summary    stats.Summary        `json:"summary"`
				Categories []stats.CategoryStat `json:"categories"`
			}{sum, rows})
		}

		fmt.Printf("Questions   %d\n", sum.Total)
		fmt.Printf("Correct     %d (%d%%)\n", sum.Correct, stats.Ratio(sum.Correct, sum.Total))
		fmt.Printf("Incorrect   %d\n", sum.Incorrect)
		fmt.Printf("Unanswered  %d\n", sum.Unanswered)
		fmt.Printf("Sessions    %d completed\n\n", len(e.coord.State().SessionHistory))

		fmt.Printf("%-28s  %7s  %5s\n", "Category", "Correct", "Ratio")
		fmt.Println(strings.Repeat("─", 44))
		for _, r := range rows {
			fmt.Printf("%-28s  %3d/%-3d  %4d%%\n", r.Category, r.Correct, r.Total, r.Ratio)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print as JSON")
}
