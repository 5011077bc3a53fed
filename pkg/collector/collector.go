package collector

import (
	"context"
	"sync"
	"time"

	"github.com/carlmjohnson/flowmatic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/symbol/symbol-faucet/pkg/app"
	"github.com/symbol/symbol-faucet/pkg/logger"
)

const DefaultTimeout = 10 * time.Second

// Target is the faucet state a scrape reads.
type Target interface {
	NodeURL() string
	IsNodeHealth(ctx context.Context) bool
	FaucetBalance(ctx context.Context) (*app.Balance, error)
}

// TargetFunc returns the current target, nil when nothing is bound yet.
type TargetFunc func() Target

// FromManager follows the manager's current App across failovers.
func FromManager(m *app.Manager) TargetFunc {
	return func() Target {
		if current := m.Current(); current != nil {
			return current
		}
		return nil
	}
}

type result struct {
	nodeURL string
	health  float64
	balance *app.Balance
}

// FaucetCollector exports the bound node's health and the faucet balance.
type FaucetCollector struct {
	target       TargetFunc
	timeout      time.Duration
	health       *prometheus.GaugeVec
	balance      *prometheus.GaugeVec
	collectMutex sync.Mutex
}

// CollectorOption defines functional options for FaucetCollector
type CollectorOption func(*FaucetCollector)

// WithCollectorTimeout sets the timeout for collection operations
func WithCollectorTimeout(timeout time.Duration) CollectorOption {
	return func(c *FaucetCollector) {
		c.timeout = timeout
	}
}

func NewFaucetCollector(target TargetFunc, constLabels prometheus.Labels, opts ...CollectorOption) *FaucetCollector {
	collector := &FaucetCollector{
		target:  target,
		timeout: DefaultTimeout,
		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "symbol_faucet_node_health",
				Help:        "1 if the bound Symbol node reports its API and database up",
				ConstLabels: constLabels,
			},
			[]string{"node_url"},
		),
		balance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "symbol_faucet_account_balance",
				Help:        "Network currency balance of the faucet account",
				ConstLabels: constLabels,
			},
			[]string{"address", "unit"},
		),
	}

	for _, opt := range opts {
		opt(collector)
	}
	return collector
}

func (c *FaucetCollector) collectMetrics() *result {
	target := c.target()
	if target == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	res := &result{nodeURL: target.NodeURL()}
	err := flowmatic.Do(
		func() error {
			if target.IsNodeHealth(ctx) {
				res.health = 1
			}
			return nil
		},
		func() error {
			balance, err := target.FaucetBalance(ctx)
			if err != nil {
				logger.Errorf("error collecting faucet balance from %s: %v", res.nodeURL, err)
				return nil
			}
			res.balance = balance
			return nil
		},
	)
	if err != nil {
		logger.Errorf("error in collection process: %v", err)
	}
	return res
}

func (c *FaucetCollector) Describe(ch chan<- *prometheus.Desc) {
	c.health.Describe(ch)
	c.balance.Describe(ch)
}

func (c *FaucetCollector) Collect(ch chan<- prometheus.Metric) {
	c.collectMutex.Lock()
	defer c.collectMutex.Unlock()

	res := c.collectMetrics()
	if res == nil {
		logger.Warnf("no node bound yet, skipping collection")
		return
	}
	logger.Debugf("collected %s: health=%v", res.nodeURL, res.health)

	c.health.With(prometheus.Labels{"node_url": res.nodeURL}).Set(res.health)
	c.health.Collect(ch)
	c.health.Reset()

	if res.balance != nil {
		c.balance.With(prometheus.Labels{
			"address": res.balance.Address,
			"unit":    res.balance.Unit,
		}).Set(res.balance.Amount)
		c.balance.Collect(ch)
		c.balance.Reset()
	}
}

// NewFailoverCounter exposes Manager.Failovers as a counter.
func NewFailoverCounter(m *app.Manager, constLabels prometheus.Labels) prometheus.CounterFunc {
	return prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name:        "symbol_faucet_failovers_total",
			Help:        "Number of times the faucet switched to another node",
			ConstLabels: constLabels,
		},
		func() float64 {
			return float64(m.Failovers())
		},
	)
}
