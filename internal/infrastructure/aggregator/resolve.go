package aggregator

import (
	"fmt"
)

// EnvSandbox is the only environment in which synthetic data may be used.
const EnvSandbox = "sandbox"

// Config selects and configures the aggregator client.
type Config struct {
	Environment      string
	BaseURL          string
	ClientID         string
	ClientSecret     string
	UseSyntheticData bool
}

// Resolve returns the aggregator client for the given configuration.
//
// The synthetic client activates only when the environment is sandbox AND
// synthetic data is explicitly requested, so a live deployment can never
// fall back to mock data by accident. The live path requires credentials
// and fails here, before any I/O, when they are absent.
func Resolve(cfg Config) (Client, error) {
	if cfg.Environment == EnvSandbox && cfg.UseSyntheticData {
		return NewSandboxClient(), nil
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("aggregator credentials are required in %s environment", cfg.Environment)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("aggregator base URL is required in %s environment", cfg.Environment)
	}

	return NewLiveClient(cfg.BaseURL, cfg.ClientID, cfg.ClientSecret), nil
}
