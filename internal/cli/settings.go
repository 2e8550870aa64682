package cli

import (
	"os"
	"strconv"
	"time"

	"aapctl/internal/gateway"
)

// Environment variable names for gateway connection settings.
// Precedence is flag > environment > manifest gateway block.
const (
	HostnameEnvVar      = "AAP_HOSTNAME"
	UsernameEnvVar      = "AAP_USERNAME"
	PasswordEnvVar      = "AAP_PASSWORD"
	TokenEnvVar         = "AAP_TOKEN"
	ValidateCertsEnvVar = "AAP_VALIDATE_CERTS"
	TimeoutEnvVar       = "AAP_REQUEST_TIMEOUT"
)

// GatewayConfigFromEnv reads gateway connection settings from the
// environment. Unset variables leave the corresponding field zero.
func GatewayConfigFromEnv() gateway.Config {
	cfg := gateway.Config{
		BaseURL:  os.Getenv(HostnameEnvVar),
		Username: os.Getenv(UsernameEnvVar),
		Password: os.Getenv(PasswordEnvVar),
		Token:    os.Getenv(TokenEnvVar),
	}
	if raw := os.Getenv(ValidateCertsEnvVar); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.ValidateCerts = &v
		}
	}
	if raw := os.Getenv(TimeoutEnvVar); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			cfg.Timeout = time.Duration(seconds) * time.Second
		}
	}
	return cfg
}

// MergeGatewayConfig overlays a primary config on a fallback, field by
// field. Used to apply the flag > env > manifest precedence chain.
func MergeGatewayConfig(primary, fallback gateway.Config) gateway.Config {
	merged := fallback
	if primary.BaseURL != "" {
		merged.BaseURL = primary.BaseURL
	}
	if primary.Username != "" {
		merged.Username = primary.Username
	}
	if primary.Password != "" {
		merged.Password = primary.Password
	}
	if primary.Token != "" {
		merged.Token = primary.Token
	}
	if primary.ValidateCerts != nil {
		merged.ValidateCerts = primary.ValidateCerts
	}
	if primary.Timeout != 0 {
		merged.Timeout = primary.Timeout
	}
	// Credentials never mix across layers: a token from a higher layer
	// displaces lower-layer basic credentials and vice versa.
	if primary.Token != "" && primary.Username == "" {
		merged.Username = ""
		merged.Password = ""
	}
	if primary.Username != "" && primary.Token == "" {
		merged.Token = ""
	}
	return merged
}
