package balances

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/finpilot/internal/common"
	"github.com/plaid/plaid-go/v20/plaid"
)

// PlaidConfig holds Plaid API configuration.
type PlaidConfig struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
	AccessToken string
}

// Validate ensures all required fields are present.
func (c *PlaidConfig) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: plaid client ID is required", common.ErrMissingConfig)
	}
	if c.Secret == "" {
		return fmt.Errorf("%w: plaid secret is required", common.ErrMissingConfig)
	}
	if c.AccessToken == "" {
		return fmt.Errorf("%w: plaid access token is required", common.ErrMissingConfig)
	}
	switch c.Environment {
	case "sandbox", "production":
		return nil
	case "":
		return fmt.Errorf("%w: plaid environment is required", common.ErrMissingConfig)
	default:
		return fmt.Errorf("%w: plaid environment must be sandbox or production", common.ErrInvalidConfig)
	}
}

// PlaidSource reads current balances of every account linked to an access token.
type PlaidSource struct {
	client      *plaid.APIClient
	logger      *slog.Logger
	accessToken string
	retryOpts   common.RetryOptions
}

// NewPlaidSource creates a Plaid balance source.
func NewPlaidSource(cfg PlaidConfig) (*PlaidSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	env := plaid.Sandbox
	if cfg.Environment == "production" {
		env = plaid.Production
	}
	return newPlaidSource(cfg, env), nil
}

func newPlaidSource(cfg PlaidConfig, env plaid.Environment) *PlaidSource {
	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)
	configuration.UseEnvironment(env)

	return &PlaidSource{
		client:      plaid.NewAPIClient(configuration),
		accessToken: cfg.AccessToken,
		logger:      slog.Default().With("component", "plaid"),
		retryOpts: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// Name identifies the source in logs and errors.
func (p *PlaidSource) Name() string {
	return "plaid"
}

// Balances fetches linked accounts and classifies them by Plaid account type.
func (p *PlaidSource) Balances(ctx context.Context) ([]Balance, error) {
	var accounts []plaid.AccountBase
	err := common.WithRetry(ctx, func() error {
		request := plaid.NewAccountsGetRequest(p.accessToken)
		resp, _, err := p.client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*request).Execute()
		if err != nil {
			if plaidError := extractPlaidError(err); plaidError != nil {
				if plaidError.ErrorCode == "RATE_LIMIT_EXCEEDED" {
					p.logger.Warn("Rate limit hit, will retry", "error", plaidError.ErrorMessage)
					return &common.RetryableError{Err: err, Retryable: true}
				}
				return common.Permanent(fmt.Errorf("plaid API error: %s - %s", plaidError.ErrorCode, plaidError.ErrorMessage))
			}
			return fmt.Errorf("failed to fetch accounts: %w", err)
		}
		accounts = resp.GetAccounts()
		return nil
	}, p.retryOpts)
	if err != nil {
		return nil, err
	}

	bals := make([]Balance, 0, len(accounts))
	for _, account := range accounts {
		balances := account.GetBalances()
		bals = append(bals, Balance{
			Source:    p.Name(),
			AccountID: account.GetAccountId(),
			Name:      account.GetName(),
			Kind:      kindOfPlaidAccount(account.GetType()),
			Amount:    abs(balances.GetCurrent()),
		})
	}

	p.logger.Info("Fetched Plaid balances", "accounts", len(bals))
	return bals, nil
}

func kindOfPlaidAccount(t plaid.AccountType) Kind {
	switch t {
	case plaid.ACCOUNTTYPE_DEPOSITORY:
		return KindCash
	case plaid.ACCOUNTTYPE_INVESTMENT, plaid.ACCOUNTTYPE_BROKERAGE:
		return KindInvestment
	case plaid.ACCOUNTTYPE_CREDIT:
		return KindCreditCard
	case plaid.ACCOUNTTYPE_LOAN:
		return KindLoan
	default:
		return KindOther
	}
}

func extractPlaidError(err error) *plaid.PlaidError {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return nil
	}
	return &plaidErr
}
