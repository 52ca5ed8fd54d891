package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/finpilot/internal/cli"
	"github.com/Veraticus/finpilot/internal/common"
	"github.com/Veraticus/finpilot/internal/config"
	"github.com/Veraticus/finpilot/internal/journal"
	"github.com/Veraticus/finpilot/internal/session"
	"github.com/Veraticus/finpilot/internal/tui"
	"github.com/Veraticus/finpilot/internal/tui/themes"
)

func wizardCmd() *cobra.Command {
	var (
		plain   bool
		prefill prefillOptions
	)

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Build a plan step by step",
		Long: `Walk through your profile, assets, debts and goals, then generate and
review your Sentinel and Voyager plans. The full-screen interface is used by
default; --plain asks one question at a time instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if plain {
				return runPlainWizard(cmd, prefill)
			}
			return runTUIWizard(cmd, prefill)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "use line-by-line prompts instead of the full-screen interface")
	cmd.Flags().StringSliceVar(&prefill.ofxFiles, "prefill-ofx", nil, "prefill assets and debts from OFX/QFX statements")
	cmd.Flags().BoolVar(&prefill.plaid, "prefill-plaid", false, "prefill assets and debts from linked Plaid accounts")
	cmd.Flags().String("theme", "default", "interface theme (default, catppuccin-mocha)")
	_ = viper.BindPFlag(config.KeyTUITheme, cmd.Flags().Lookup("theme"))

	return cmd
}

func runTUIWizard(cmd *cobra.Command, opts prefillOptions) error {
	ctx := cmd.Context()

	// Log lines would tear the alternate screen.
	if viper.GetString(config.KeyLoggingFile) == "" {
		level, _ := common.ParseLevel(viper.GetString(config.KeyLoggingLevel))
		if err := common.SetupLoggerTo(io.Discard, level, viper.GetString(config.KeyLoggingFormat)); err != nil {
			return err
		}
	}

	p, err := newPlanner()
	if err != nil {
		return err
	}
	j, err := journal.Open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	feed := tui.NewFeed()
	state := session.New(p,
		session.WithJournal(j),
		session.WithListener(feed.Publish),
		session.WithLogger(slog.Default()),
		session.WithTimeout(viper.GetDuration(config.KeyServiceTimeout)),
	)
	defer state.Close()

	if err := prefill(ctx, state, opts, cmd.ErrOrStderr()); err != nil {
		return err
	}

	tuiOpts := []tui.Option{
		tui.WithTheme(themes.GetTheme(viper.GetString(config.KeyTUITheme))),
		tui.WithJournal(j),
		tui.WithProjectionRate(viper.GetFloat64(config.KeyProjectionRate)),
	}
	if style := viper.GetString(config.KeyTUIGlamourStyle); style != "" {
		tuiOpts = append(tuiOpts, tui.WithGlamourStyle(style))
	}
	return tui.Run(ctx, state, feed, tuiOpts...)
}

func runPlainWizard(cmd *cobra.Command, opts prefillOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	p, err := newPlanner()
	if err != nil {
		return err
	}
	j, err := journal.Open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	state := session.New(p, session.WithJournal(j), session.WithLogger(slog.Default()),
		session.WithTimeout(viper.GetDuration(config.KeyServiceTimeout)))
	defer state.Close()

	if err := prefill(ctx, state, opts, out); err != nil {
		return err
	}

	render, err := newRenderer(out)
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx = handler.HandleInterrupts(ctx, func() bool { return requestInFlight(state) })
	stop := context.AfterFunc(ctx, state.Close)
	defer stop()

	fmt.Fprintln(out, cli.FormatTitle("FinPilot"))
	err = cli.NewWizard(state, cli.NewSurveyPrompter(), render, os.Stderr).Run(ctx)
	if handler.WasInterrupted() {
		return nil
	}
	if err != nil {
		return err
	}

	if stats, statsErr := j.Stats(ctx, state.Snapshot().SessionID); statsErr == nil {
		render.Stats(stats)
	}
	return nil
}

// newRenderer creates a console renderer using the configured markdown style.
func newRenderer(out io.Writer) (*cli.Renderer, error) {
	style := viper.GetString(config.KeyTUIGlamourStyle)
	if style == "" {
		style = "dark"
	}
	return cli.NewRenderer(out, style, viper.GetFloat64(config.KeyProjectionRate))
}
