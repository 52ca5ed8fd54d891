package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/finpilot/internal/cli"
	"github.com/Veraticus/finpilot/internal/common"
	"github.com/Veraticus/finpilot/internal/config"
)

var (
	cfgFile string
	version = "dev"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "finpilot",
		Short: "🧭 Build a personal financial plan from the terminal",
		Long: `finpilot walks you through your income, assets, debts and goals, asks a
planning service for a conservative (Sentinel) and a growth (Voyager) strategy,
and has the plans evaluated while you read them.

Nothing is saved between runs.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/finpilot/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.String("service-url", "", "planning service base URL")
	flags.String("provider", "http", "planner provider (http, stub)")

	_ = viper.BindPFlag(config.KeyLoggingLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLoggingFormat, flags.Lookup("log-format"))
	_ = viper.BindPFlag(config.KeyLoggingFile, flags.Lookup("log-file"))
	_ = viper.BindPFlag(config.KeyServiceURL, flags.Lookup("service-url"))
	_ = viper.BindPFlag(config.KeyServiceProvider, flags.Lookup("provider"))

	root.AddCommand(wizardCmd())
	root.AddCommand(planCmd())
	root.AddCommand(pingCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil && !errors.Is(err, cli.ErrAborted) {
		common.LogError(err, "Command failed", common.Fields{"args": os.Args[1:]})
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(config.ExpandPath(cfgFile))
	} else {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(dir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FINPILOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString(config.KeyLoggingLevel))
	if err != nil {
		return err
	}
	format := viper.GetString(config.KeyLoggingFormat)

	path := viper.GetString(config.KeyLoggingFile)
	if path == "" {
		return common.SetupLogger(level, format)
	}
	file, err := os.OpenFile(config.ExpandPath(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	return common.SetupLoggerTo(file, level, format)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finpilot %s\n", version)
		},
	}
}
