package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Send the weekly practice summary emails now",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		report, err := application.SummaryService().RunWeekly(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "users: %d, sent: %d, failed: %d\n", len(report.Entries), report.Sent, len(report.FailedUserIDs))
		if len(report.FailedUserIDs) > 0 {
			fmt.Fprintf(out, "failed user ids: %v\n", report.FailedUserIDs)
		}
		if report.ArchiveURL != "" {
			fmt.Fprintf(out, "archived: %s\n", report.ArchiveURL)
		}
		return nil
	},
}
