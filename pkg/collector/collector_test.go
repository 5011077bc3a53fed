package collector

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symbol/symbol-faucet/pkg/app"
	"github.com/symbol/symbol-faucet/pkg/config"
	"github.com/symbol/symbol-faucet/pkg/logger"
)

// mockTarget implements Target for testing
type mockTarget struct {
	nodeURL    string
	healthy    bool
	balance    *app.Balance
	balanceErr error
	delay      time.Duration
}

func (m *mockTarget) NodeURL() string {
	return m.nodeURL
}

func (m *mockTarget) IsNodeHealth(ctx context.Context) bool {
	return m.healthy
}

func (m *mockTarget) FaucetBalance(ctx context.Context) (*app.Balance, error) {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.delay):
		}
	}
	return m.balance, m.balanceErr
}

func staticTarget(target Target) TargetFunc {
	return func() Target { return target }
}

func TestFaucetCollector_Collect(t *testing.T) {
	logger.UseTestLogger(t)

	balance := &app.Balance{
		Address: "TBQJ2FDX2EW7LVFV6UMWP6ZFKGAIJNYSNDRQVVQ",
		Amount:  1234.5,
		Unit:    "XYM",
	}

	tests := []struct {
		name     string
		target   *mockTarget
		expected string
	}{
		{
			name:   "healthy with balance",
			target: &mockTarget{nodeURL: "http://node-a:3000", healthy: true, balance: balance},
			expected: `
# HELP symbol_faucet_account_balance Network currency balance of the faucet account
# TYPE symbol_faucet_account_balance gauge
symbol_faucet_account_balance{address="TBQJ2FDX2EW7LVFV6UMWP6ZFKGAIJNYSNDRQVVQ",network="testnet",unit="XYM"} 1234.5
# HELP symbol_faucet_node_health 1 if the bound Symbol node reports its API and database up
# TYPE symbol_faucet_node_health gauge
symbol_faucet_node_health{network="testnet",node_url="http://node-a:3000"} 1
`,
		},
		{
			name:   "unhealthy without balance",
			target: &mockTarget{nodeURL: "http://node-b:3000", balanceErr: errors.New("connection refused")},
			expected: `
# HELP symbol_faucet_node_health 1 if the bound Symbol node reports its API and database up
# TYPE symbol_faucet_node_health gauge
symbol_faucet_node_health{network="testnet",node_url="http://node-b:3000"} 0
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFaucetCollector(staticTarget(tt.target), prometheus.Labels{"network": "testnet"})
			err := testutil.CollectAndCompare(c, strings.NewReader(tt.expected))
			assert.NoError(t, err)
		})
	}
}

func TestFaucetCollector_NoTarget(t *testing.T) {
	logger.UseTestLogger(t)

	c := NewFaucetCollector(func() Target { return nil }, nil)
	assert.Equal(t, 0, testutil.CollectAndCount(c))
}

func TestFaucetCollector_Timeout(t *testing.T) {
	logger.UseTestLogger(t)

	target := &mockTarget{
		nodeURL: "http://slow:3000",
		healthy: true,
		balance: &app.Balance{Address: "addr", Unit: "XYM"},
		delay:   time.Second,
	}
	c := NewFaucetCollector(staticTarget(target), nil, WithCollectorTimeout(10*time.Millisecond))

	res := c.collectMetrics()
	require.NotNil(t, res)
	assert.Equal(t, "http://slow:3000", res.nodeURL)
	assert.Equal(t, 1.0, res.health)
	assert.Nil(t, res.balance)
}

func TestFromManagerBeforeBootstrap(t *testing.T) {
	m := app.NewManager(&config.Schema{}, nil)
	assert.Nil(t, FromManager(m)())
}
