package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"ravencode_backend/internal/app"
	"ravencode_backend/internal/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ravencode",
	Short: "RavenCode practice backend",
	Long:  "RavenCode serves the practice API: lives, AI-generated question sets and grading.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "configs", "Directory containing config.yaml")
	rootCmd.PersistentFlags().Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(summaryCmd)
}

// loadConfig reads config.yaml from the --config directory and returns it
// with the file path used for hot reload.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	cfg.ForceMigrate, _ = cmd.Flags().GetBool("migrate")
	return cfg, filepath.Join(dir, "config.yaml"), nil
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app.App, error) {
	cfg, file, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.NewApp(ctx, cfg, file)
}
