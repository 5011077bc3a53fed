package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symbol/symbol-faucet/pkg/config"
	"github.com/symbol/symbol-faucet/pkg/logger"
)

func validConfig() *config.Schema {
	return &config.Schema{
		Global: config.Global{ListenAddr: ":4000", LogLevel: "info"},
		Network: config.Network{
			DefaultNode:      "https://node.example:3001",
			FaucetPrivateKey: "575DBB3062267EFF57C970A336EBBC8FBCFE12C5BD3ED7BC11EB0481D7704CED",
			RequestTimeout:   10,
		},
		Statistics:  &config.Statistics{URL: "https://statistics.example", Filter: "preferred", Limit: 30},
		HealthCheck: &config.HealthCheck{Enabled: true, Schedule: "@every 1m", FailureThreshold: 3},
		RateLimit:   &config.RateLimit{Enabled: true, RPS: 5, Burst: 10},
	}
}

func TestValidateConfig(t *testing.T) {
	logger.UseTestLogger(t)

	tests := []struct {
		name       string
		mutate     func(cfg *config.Schema)
		wantFields []string
	}{
		{
			name:   "valid",
			mutate: func(cfg *config.Schema) {},
		},
		{
			name:   "no statistics section",
			mutate: func(cfg *config.Schema) { cfg.Statistics = nil },
		},
		{
			name:   "private key with surrounding whitespace",
			mutate: func(cfg *config.Schema) { cfg.Network.FaucetPrivateKey = " " + cfg.Network.FaucetPrivateKey + "\n" },
		},
		{
			name: "bad global",
			mutate: func(cfg *config.Schema) {
				cfg.Global.ListenAddr = ""
				cfg.Global.LogLevel = "verbose"
			},
			wantFields: []string{"global.listenAddr", "global.logLevel"},
		},
		{
			name: "bad network",
			mutate: func(cfg *config.Schema) {
				cfg.Network.DefaultNode = "localhost:3000"
				cfg.Network.FaucetPrivateKey = "abcd"
			},
			wantFields: []string{"network.defaultNode", "network.faucetPrivateKey"},
		},
		{
			name: "missing network values",
			mutate: func(cfg *config.Schema) {
				cfg.Network.DefaultNode = ""
				cfg.Network.FaucetPrivateKey = ""
			},
			wantFields: []string{"network.defaultNode", "network.faucetPrivateKey"},
		},
		{
			name: "bad statistics",
			mutate: func(cfg *config.Schema) {
				cfg.Statistics.URL = "ftp://statistics"
				cfg.Statistics.Filter = "all"
			},
			wantFields: []string{"statistics.url", "statistics.filter"},
		},
		{
			name:       "bad statistics limit",
			mutate:     func(cfg *config.Schema) { cfg.Statistics.Limit = -1 },
			wantFields: []string{"statistics.limit"},
		},
		{
			name: "bad schedule and rate limit",
			mutate: func(cfg *config.Schema) {
				cfg.HealthCheck.Schedule = "every now and then"
				cfg.RateLimit.RPS = 0
			},
			wantFields: []string{"healthCheck.schedule", "rateLimit.rps"},
		},
		{
			name: "disabled sections are not checked",
			mutate: func(cfg *config.Schema) {
				cfg.HealthCheck.Enabled = false
				cfg.HealthCheck.Schedule = "nonsense"
				cfg.RateLimit.Enabled = false
				cfg.RateLimit.Burst = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := NewConfigValidator().ValidateConfig(cfg)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var validationErrors ValidationErrors
			require.True(t, errors.As(err, &validationErrors))
			fields := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				fields = append(fields, e.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	err := ValidationErrors{
		{Field: "a", Message: "first"},
		{Field: "b", Message: "second"},
	}
	assert.Equal(t, "a: first; b: second", err.Error())
}
