package cmd

import (
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import custom questions from a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		printNotices(e.coord)

		report, err := e.coord.ImportQuestions(args[0])
		if err != nil {
			return err
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			for _, inv := range report.Invalid {
				cmd.PrintErrf("  record %d: %s\n", inv.Index+1, inv.Reason)
			}
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export custom questions to a JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "custom-questions.json"
		if len(args) == 1 {
			path = args[0]
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		printNotices(e.coord)
		_, err = e.coord.ExportCustom(path)
		return err
	},
}

func init() {
	importCmd.Flags().BoolP("verbose", "v", false, "List rejected records")
}
