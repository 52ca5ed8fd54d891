// Package balances reads account balances from OFX statements and Plaid and turns
// them into prefilled asset and liability fields for the planning wizard.
package balances

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finpilot/internal/model"
	"golang.org/x/sync/errgroup"
)

// Kind classifies an account balance.
type Kind int

// Balance kinds.
const (
	KindCash Kind = iota
	KindInvestment
	KindCreditCard
	KindLoan
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindCash:
		return "cash"
	case KindInvestment:
		return "investment"
	case KindCreditCard:
		return "credit card"
	case KindLoan:
		return "loan"
	default:
		return "other"
	}
}

// Balance is the current balance of one account. Amount is a magnitude: debts
// are positive amounts owed.
type Balance struct {
	Source    string
	AccountID string
	Name      string
	Kind      Kind
	Amount    float64
}

// Source provides balances for one institution or file.
type Source interface {
	Name() string
	Balances(ctx context.Context) ([]Balance, error)
}

// Collect fetches every source concurrently. The first failure cancels the rest.
// Results keep the order of sources.
func Collect(ctx context.Context, sources ...Source) ([]Balance, error) {
	results := make([][]Balance, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, src := range sources {
		g.Go(func() error {
			bals, err := src.Balances(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name(), err)
			}
			slog.Debug("Fetched balances",
				"source", src.Name(),
				"accounts", len(bals))
			results[i] = bals
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Balance
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// Summary totals balances into the wizard's asset and liability buckets.
type Summary struct {
	Cash             float64
	Investments      float64
	Other            float64
	HighInterestDebt float64
	Loans            float64
	Accounts         int
}

// Summarize totals balances by kind.
func Summarize(bals []Balance) Summary {
	var s Summary
	for _, b := range bals {
		s.Accounts++
		switch b.Kind {
		case KindCash:
			s.Cash += b.Amount
		case KindInvestment:
			s.Investments += b.Amount
		case KindCreditCard:
			s.HighInterestDebt += b.Amount
		case KindLoan:
			s.Loans += b.Amount
		default:
			s.Other += b.Amount
		}
	}
	return s
}

// Apply writes the summary into the input's asset and liability fields. Loan
// principal is not applied: the wizard asks for monthly EMIs, which balances
// cannot provide.
func (s Summary) Apply(in *model.Input) error {
	fields := []struct {
		path  string
		value float64
	}{
		{model.FieldCashEquivalents, s.Cash},
		{model.FieldEquityInvestments, s.Investments},
		{model.FieldOtherInvestments, s.Other},
		{model.FieldHighInterestDebt, s.HighInterestDebt},
	}
	for _, f := range fields {
		if err := in.SetField(f.path, string(model.AmountOf(round2(f.value)))); err != nil {
			return err
		}
	}
	return nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
