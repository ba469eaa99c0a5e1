package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "只执行数据库迁移，完成后退出",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		if err := application.Migrate(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "数据库迁移完成")
		return nil
	},
}
