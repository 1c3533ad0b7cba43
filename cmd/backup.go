package cmd

import (
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a backup of all user data",
	Long: `Write a timestamped backup file to the configured backup directory.
--dir sets (and remembers) the directory first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		printNotices(e.coord)

		if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
			if err := e.coord.ChooseBackupDirectory(dir); err != nil {
				return err
			}
		}
		_, err = e.coord.BackupNow(cmd.Context())
		return err
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup-file>",
	Short: "Replace all user data with the contents of a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		printNotices(e.coord)
		return e.coord.ImportBackup(args[0])
	},
}

func init() {
	backupCmd.Flags().String("dir", "", "Backup directory to use and remember")
}
