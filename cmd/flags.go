package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"aapctl/internal/cli"
	"aapctl/internal/gateway"
)

// gatewayFlags collects the connection flags shared by commands that
// talk to the gateway.
type gatewayFlags struct {
	hostname       string
	username       string
	password       string
	token          string
	validateCerts  bool
	timeoutSeconds int
}

// register adds the connection flags to a command.
func (f *gatewayFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.hostname, "hostname", "", "Gateway base URL (or "+cli.HostnameEnvVar+")")
	cmd.Flags().StringVar(&f.username, "username", "", "Basic auth username (or "+cli.UsernameEnvVar+")")
	cmd.Flags().StringVar(&f.password, "password", "", "Basic auth password (or "+cli.PasswordEnvVar+")")
	cmd.Flags().StringVar(&f.token, "token", "", "Bearer token (or "+cli.TokenEnvVar+")")
	cmd.Flags().BoolVar(&f.validateCerts, "validate-certs", true, "Verify the gateway TLS certificate")
	cmd.Flags().IntVar(&f.timeoutSeconds, "timeout", 0, "Request timeout in seconds (default 30)")
}

// config resolves the flags into a gateway config, overlaid on the
// environment. Only flags the user actually set take precedence.
func (f *gatewayFlags) config(cmd *cobra.Command) gateway.Config {
	cfg := gateway.Config{
		BaseURL:  f.hostname,
		Username: f.username,
		Password: f.password,
		Token:    f.token,
	}
	if cmd.Flags().Changed("validate-certs") {
		v := f.validateCerts
		cfg.ValidateCerts = &v
	}
	if f.timeoutSeconds > 0 {
		cfg.Timeout = time.Duration(f.timeoutSeconds) * time.Second
	}
	return cli.MergeGatewayConfig(cfg, cli.GatewayConfigFromEnv())
}
