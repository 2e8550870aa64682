package gateway

import (
	"fmt"
	"time"
)

// DefaultTimeout is the per-request timeout used when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Config holds the connection settings for a gateway client.
// It is an explicit struct passed into NewClient; there is no ambient
// or global connection state.
type Config struct {
	// BaseURL is the scheme and host of the gateway, e.g. "https://aap.example.com".
	// Trailing slashes are ignored.
	BaseURL string `yaml:"hostname"`

	// Username and Password configure HTTP basic authentication.
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Token configures bearer token authentication. Exactly one of
	// basic auth or token auth must be configured.
	Token string `yaml:"token,omitempty"`

	// ValidateCerts toggles TLS certificate verification. Defaults to true.
	ValidateCerts *bool `yaml:"validate_certs,omitempty"`

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration `yaml:"request_timeout,omitempty"`
}

// Validate checks that the configuration is complete and unambiguous.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("gateway hostname is required")
	}
	hasBasic := c.Username != "" || c.Password != ""
	hasToken := c.Token != ""
	if hasBasic && hasToken {
		return fmt.Errorf("gateway authentication is ambiguous: configure either username/password or a token, not both")
	}
	if !hasBasic && !hasToken {
		return fmt.Errorf("gateway authentication is required: configure username/password or a token")
	}
	if hasBasic && (c.Username == "" || c.Password == "") {
		return fmt.Errorf("gateway basic authentication requires both username and password")
	}
	return nil
}

// validateCerts resolves the tri-state ValidateCerts pointer to its
// effective value.
func (c Config) validateCerts() bool {
	if c.ValidateCerts == nil {
		return true
	}
	return *c.ValidateCerts
}

// timeout resolves the effective request timeout.
func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
