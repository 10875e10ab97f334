package cmd

import (
	"context"
	"fmt"
	"os"

	"subject_recommender/internal/app"
	"subject_recommender/internal/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "subject-recommender",
	Short:         "Elective subject recommendations for students",
	Long:          "Filters the subject catalog down to what a student may enrol in and ranks the rest by how well each subject matches the student's preferences.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "configs", "directory containing config.yaml")
	rootCmd.PersistentFlags().Bool("no-cache", false, "bypass the redis result cache")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openApp 组装完整依赖，调用方负责 Close
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	noCache, _ := cmd.Flags().GetBool("no-cache")
	return app.NewApp(cmdContext(cmd), cfg, app.Options{NoCache: noCache})
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
