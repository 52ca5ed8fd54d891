package config

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/finpilot/internal/balances"
	"github.com/Veraticus/finpilot/internal/planner"
)

// Viper keys read by the loaders in this package.
const (
	KeyServiceProvider         = "service.provider"
	KeyServiceURL              = "service.url"
	KeyServiceAPIKey           = "service.api_key"
	KeyServiceTimeout          = "service.timeout"
	KeyServiceRateLimit        = "service.rate_limit"
	KeyServiceValidateContract = "service.validate_contract"
	KeyServiceStubDelay        = "service.stub_delay"
	KeyPlaidClientID           = "plaid.client_id"
	KeyPlaidSecret             = "plaid.secret"
	KeyPlaidEnvironment        = "plaid.environment"
	KeyPlaidAccessToken        = "plaid.access_token"
	KeyLoggingLevel            = "logging.level"
	KeyLoggingFormat           = "logging.format"
	KeyLoggingFile             = "logging.file"
	KeyTUITheme                = "tui.theme"
	KeyTUIGlamourStyle         = "tui.glamour_style"
	KeyProjectionRate          = "projection.annual_rate"
)

// SetDefaults registers the default for every key that has one.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyServiceProvider, "http")
	v.SetDefault(KeyServiceTimeout, 2*time.Minute)
	v.SetDefault(KeyServiceRateLimit, 30)
	v.SetDefault(KeyServiceValidateContract, true)
	v.SetDefault(KeyPlaidEnvironment, "sandbox")
	v.SetDefault(KeyLoggingLevel, "info")
	v.SetDefault(KeyLoggingFormat, "console")
	v.SetDefault(KeyTUITheme, "default")
	v.SetDefault(KeyProjectionRate, 0.12)
}

// LoadPlannerConfig loads the planning service configuration.
// It follows this precedence:
// 1. Viper configuration (from config file, flags or FINPILOT_ env vars)
// 2. FINPILOT_SERVICE_URL and FINPILOT_API_KEY from the environment
// 3. Default values
func LoadPlannerConfig(v *viper.Viper) planner.Config {
	cfg := planner.Config{
		Provider:         v.GetString(KeyServiceProvider),
		BaseURL:          v.GetString(KeyServiceURL),
		APIKey:           v.GetString(KeyServiceAPIKey),
		Timeout:          v.GetDuration(KeyServiceTimeout),
		RateLimit:        v.GetInt(KeyServiceRateLimit),
		StubDelay:        v.GetDuration(KeyServiceStubDelay),
		ValidateContract: v.GetBool(KeyServiceValidateContract),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("FINPILOT_SERVICE_URL")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("FINPILOT_API_KEY")
	}
	return cfg
}

// LoadPlaidConfig loads Plaid credentials, falling back to the PLAID_* variables
// used by Plaid's own quickstarts. The result is validated by the balance source.
func LoadPlaidConfig(v *viper.Viper) balances.PlaidConfig {
	cfg := balances.PlaidConfig{
		ClientID:    v.GetString(KeyPlaidClientID),
		Secret:      v.GetString(KeyPlaidSecret),
		Environment: v.GetString(KeyPlaidEnvironment),
		AccessToken: v.GetString(KeyPlaidAccessToken),
	}

	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("PLAID_CLIENT_ID")
	}
	if cfg.Secret == "" {
		cfg.Secret = os.Getenv("PLAID_SECRET")
	}
	if cfg.AccessToken == "" {
		cfg.AccessToken = os.Getenv("PLAID_ACCESS_TOKEN")
	}
	return cfg
}
