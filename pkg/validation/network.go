package validation

import (
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/symbol/symbol-faucet/pkg/config"
)

type NetworkValidator struct{}

func (NetworkValidator) Validate(cfg *config.Schema) ValidationErrors {
	var errors ValidationErrors
	network := cfg.Network

	if network.DefaultNode == "" {
		errors = append(errors, ValidationError{
			Field:   "network.defaultNode",
			Message: "cannot be empty",
		})
	} else if msg := checkHTTPURL(network.DefaultNode); msg != "" {
		errors = append(errors, ValidationError{
			Field:   "network.defaultNode",
			Message: msg,
		})
	}

	if network.FaucetPrivateKey == "" {
		errors = append(errors, ValidationError{
			Field:   "network.faucetPrivateKey",
			Message: "cannot be empty (set it directly or via faucetPrivateKeyEnv)",
		})
	} else if raw, err := hex.DecodeString(strings.TrimSpace(network.FaucetPrivateKey)); err != nil || len(raw) != 32 {
		errors = append(errors, ValidationError{
			Field:   "network.faucetPrivateKey",
			Message: "must be 64 hexadecimal characters",
		})
	}

	if network.RequestTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "network.requestTimeout",
			Message: "cannot be negative",
		})
	}

	return errors
}

func checkHTTPURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "invalid URL"
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "URL scheme must be http or https"
	}
	if parsed.Host == "" {
		return "URL must contain a host"
	}
	return ""
}
