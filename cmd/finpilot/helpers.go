package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Veraticus/finpilot/internal/balances"
	"github.com/Veraticus/finpilot/internal/cli"
	"github.com/Veraticus/finpilot/internal/config"
	"github.com/Veraticus/finpilot/internal/model"
	"github.com/Veraticus/finpilot/internal/planner"
	"github.com/Veraticus/finpilot/internal/session"
	"github.com/Veraticus/finpilot/internal/wizard"
)

// prefillOptions names the balance sources used to prefill assets and liabilities.
type prefillOptions struct {
	ofxFiles []string
	plaid    bool
}

func (o prefillOptions) enabled() bool {
	return len(o.ofxFiles) > 0 || o.plaid
}

// newPlanner creates the planner configured in viper.
func newPlanner() (planner.Planner, error) {
	p, err := planner.NewClient(config.LoadPlannerConfig(viper.GetViper()), slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create planner: %w", err)
	}
	return p, nil
}

// prefill collects balances from the configured sources and writes their
// totals into the session's input in one update.
func prefill(ctx context.Context, state *session.State, opts prefillOptions, out io.Writer) error {
	if !opts.enabled() {
		return nil
	}

	sources := make([]balances.Source, 0, len(opts.ofxFiles)+1)
	for _, path := range config.ExpandPaths(opts.ofxFiles) {
		sources = append(sources, balances.OFXFile{Path: path})
	}
	if opts.plaid {
		src, err := balances.NewPlaidSource(config.LoadPlaidConfig(viper.GetViper()))
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}

	bals, err := balances.Collect(ctx, sources...)
	if err != nil {
		return fmt.Errorf("failed to import balances: %w", err)
	}
	summary := balances.Summarize(bals)
	if err := state.UpdateInput(summary.Apply); err != nil {
		return err
	}

	slog.Info("Prefilled balances", "accounts", summary.Accounts, "sources", len(sources))
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Prefilled assets and debts from %d accounts.", summary.Accounts)))
	return nil
}

// requestInFlight reports whether any remote call is pending.
func requestInFlight(state *session.State) bool {
	snap := state.Snapshot()
	for _, st := range []session.Status{snap.Plan.Status, snap.Evaluation.Status, snap.Scenarios.Status, snap.Chat.Status} {
		if st == session.StatusLoading {
			return true
		}
	}
	return false
}

// loadProfile replaces the session's input with in and walks the wizard to
// the review step, surfacing the first validation failure.
func loadProfile(ctx context.Context, state *session.State, in *model.Input) error {
	if err := state.UpdateInput(func(dst *model.Input) error {
		*dst = *in.Clone()
		return nil
	}); err != nil {
		return err
	}
	for state.Snapshot().Step != wizard.StepReview {
		if err := state.Next(ctx); err != nil {
			return err
		}
	}
	return nil
}
