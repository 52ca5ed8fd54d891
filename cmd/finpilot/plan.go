package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/finpilot/internal/cli"
	"github.com/Veraticus/finpilot/internal/common"
	"github.com/Veraticus/finpilot/internal/config"
	"github.com/Veraticus/finpilot/internal/journal"
	"github.com/Veraticus/finpilot/internal/model"
	"github.com/Veraticus/finpilot/internal/session"
	"github.com/Veraticus/finpilot/internal/wizard"
)

func planCmd() *cobra.Command {
	var (
		template  bool
		simulate  bool
		questions []string
		prefill   prefillOptions
	)

	cmd := &cobra.Command{
		Use:   "plan [profile.yaml]",
		Short: "Generate a plan from a profile file",
		Long: `Read a profile from a YAML file, generate the Sentinel and Voyager plans,
evaluate them and print everything without prompting.

Use --template to print an example profile to start from.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if template {
				return model.ExampleInput().WriteYAML(cmd.OutOrStdout())
			}
			if len(args) == 0 {
				return errors.New("a profile file is required (see --template)")
			}
			return runPlan(cmd, args[0], planOptions{
				simulate:  simulate,
				questions: questions,
				prefill:   prefill,
			})
		},
	}

	cmd.Flags().BoolVar(&template, "template", false, "print an example profile and exit")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "also simulate market scenarios")
	cmd.Flags().StringArrayVar(&questions, "ask", nil, "ask a follow-up question about the plans (repeatable)")
	cmd.Flags().StringSliceVar(&prefill.ofxFiles, "prefill-ofx", nil, "override assets and debts from OFX/QFX statements")
	cmd.Flags().BoolVar(&prefill.plaid, "prefill-plaid", false, "override assets and debts from linked Plaid accounts")

	return cmd
}

type planOptions struct {
	questions []string
	prefill   prefillOptions
	simulate  bool
}

func runPlan(cmd *cobra.Command, path string, opts planOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	progress := cmd.ErrOrStderr()

	file, err := os.Open(config.ExpandPath(path))
	if err != nil {
		return fmt.Errorf("failed to open profile: %w", err)
	}
	in, err := model.LoadInput(file)
	_ = file.Close()
	if err != nil {
		return err
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

	state := session.New(p, session.WithJournal(j), session.WithLogger(slog.Default()),
		session.WithTimeout(viper.GetDuration(config.KeyServiceTimeout)))
	defer state.Close()

	render, err := newRenderer(out)
	if err != nil {
		return err
	}

	// An interrupt closes the session so pending waits return at once.
	handler := cli.NewInterruptHandler(progress)
	ctx = handler.HandleInterrupts(ctx, func() bool { return requestInFlight(state) })
	stop := context.AfterFunc(ctx, state.Close)
	defer stop()

	err = loadProfile(ctx, state, in)
	if err == nil {
		err = prefill(ctx, state, opts.prefill, progress)
	}
	if err == nil {
		err = state.Next(ctx)
	}
	var ve *wizard.ValidationError
	if errors.As(err, &ve) {
		render.FieldErrors(ve.Fields)
		return common.NewUserError("the profile has invalid fields", err)
	}
	if err != nil {
		return err
	}

	cli.WaitWithProgress(progress, "Generating your plans...", state.Wait)
	if handler.WasInterrupted() {
		return nil
	}
	snap := state.Snapshot()
	if snap.Plan.Status != session.StatusSuccess {
		return common.NewUserError(snap.Plan.Error, common.ErrRemote)
	}
	render.Plan(snap.Plan.Plan)
	render.Projections(snap.Plan.Request)

	if state.Reconcile() {
		cli.WaitWithProgress(progress, "Evaluating your plans...", state.Wait)
	}
	render.Evaluation(state.Snapshot().Evaluation.Result)

	if opts.simulate {
		if err := state.Simulate(ctx); err != nil {
			return err
		}
		cli.WaitWithProgress(progress, "Simulating scenarios...", state.Wait)
		sc := state.Snapshot().Scenarios
		if sc.Status == session.StatusError {
			render.Message(cli.FormatError(sc.Error))
		} else {
			render.Scenarios(sc.Scenarios)
		}
	}

	for _, q := range opts.questions {
		if err := state.Ask(ctx, q); err != nil {
			return err
		}
		cli.WaitWithProgress(progress, "Thinking...", state.Wait)
		chat := state.Snapshot().Chat
		if chat.Status == session.StatusError {
			render.Message(cli.FormatError(chat.Error))
			continue
		}
		render.Message(cli.FormatInfo(q))
		render.Answer(chat.History[len(chat.History)-1].Content)
	}

	if handler.WasInterrupted() {
		return nil
	}
	stats, err := j.Stats(ctx, state.Snapshot().SessionID)
	if err != nil {
		return err
	}
	render.Stats(stats)
	return nil
}
