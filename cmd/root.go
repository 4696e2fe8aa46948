// Package cmd は vibe コマンドのサブコマンドを定義します。
package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shouni/vibe-ui-kit/pkg/config"
)

var (
	cfgFile  string
	envFile  string
	logLevel string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vibe",
	Short: "Turn UI mockups into single-file web pages with Gemini",
	Long: `vibe takes an image mockup and a short design brief, asks Gemini for a
complete single-file HTML page, and packages the result as a small
downloadable project. Run "vibe serve" for the web UI or "vibe generate"
for a one-shot conversion.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}

		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = loaded
		setupLogger(cmd.ErrOrStderr(), cfg.LogLevel)
		return nil
	},
}

// Execute はルートコマンドを実行します。
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "vibe.yml", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log_level (debug, info, warn, error)")
}
