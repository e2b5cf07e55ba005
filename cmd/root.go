package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huanfeng/rustoredl/internal/config"
	"github.com/huanfeng/rustoredl/internal/i18n"
	"github.com/huanfeng/rustoredl/internal/version"
	"github.com/huanfeng/rustoredl/pkg/models"
	"github.com/huanfeng/rustoredl/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	langFlag  string
	logLevel  string
	logFormat string

	appConfig *models.Config
)

var rootCmd = &cobra.Command{
	Use:   "rustoredl",
	Short: "Download Android applications from RuStore",
	Long: `rustoredl looks up an Android package on RuStore by name, resolves its download
links and streams the APK (or every file of a split bundle) to disk.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// rootPreRun loads configuration and the logger before any subcommand runs
func rootPreRun(cmd *cobra.Command, args []string) error {
	if langFlag != "" {
		if err := i18n.Init(langFlag); err != nil {
			return err
		}
		applyCommandLocalization()
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if err := utils.InitGlobalLoggerFromSettings(cfg.Log.Level, cfg.Log.Format, cfg.Log.File); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appConfig = cfg
	utils.GetGlobalLogger().Debug("configuration loaded (base url %s)", cfg.Store.BaseURL)
	return nil
}

// exitError ends the process with a status code after the message has
// already been shown to the operator.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the root command with a context that is cancelled on SIGINT or SIGTERM
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := i18n.Init(""); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	applyCommandLocalization()

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.code)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentPreRunE = rootPreRun

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./rustoredl.yaml or ~/.config/rustoredl/rustoredl.yaml)")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "Interface language (en, ru)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text, compact, json")
}
