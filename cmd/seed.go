package cmd

import (
	"fmt"
	"os"

	"ravencode_backend/internal/service"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load courses, lessons and demo users from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		seed, err := service.ParseSeedFile(f)
		if err != nil {
			return err
		}

		application, err := newApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		if err := application.Migrate(); err != nil {
			return err
		}
		res, err := application.SeedService().Apply(cmd.Context(), seed)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "courses: %d created, %d skipped\n", res.CoursesCreated, res.CoursesSkipped)
		fmt.Fprintf(out, "lessons: %d created\n", res.LessonsCreated)
		fmt.Fprintf(out, "users:   %d created, %d skipped\n", res.UsersCreated, res.UsersSkipped)
		return nil
	},
}
