package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/carlmjohnson/flowmatic"
	"github.com/symbol/symbol-faucet/pkg/config"
	"github.com/symbol/symbol-faucet/pkg/logger"
	"github.com/symbol/symbol-faucet/pkg/statistics"
)

const DefaultMaxConcurrency = 10

// Manager owns the current App and swaps it when the bound node goes bad.
type Manager struct {
	cfg      *config.Schema
	lister   statistics.NodeLister
	criteria statistics.NodeSearchCriteria
	opts     []Option
	builder  FactoryBuilder
	timeout  time.Duration

	current    atomic.Pointer[App]
	failoverMu sync.Mutex
	failovers  atomic.Uint64
}

func NewManager(cfg *config.Schema, lister statistics.NodeLister, opts ...Option) *Manager {
	o := resolveOptions(opts)
	return &Manager{
		cfg:      cfg,
		lister:   lister,
		criteria: CriteriaFromConfig(cfg),
		opts:     append(opts[:len(opts):len(opts)], WithCurrencyRegistry(o.currency)),
		builder:  o.builder,
		timeout:  o.healthTimeout,
	}
}

// Bootstrap discovers candidate nodes and binds the first App.
func (m *Manager) Bootstrap(ctx context.Context) (*App, error) {
	nodes := GetNodeUrls(ctx, m.lister, m.criteria)
	app, err := Init(m.cfg, nodes, m.opts...)
	if err != nil {
		return nil, err
	}
	m.swap(app)
	return app, nil
}

// Current returns the bound App, nil before Bootstrap.
func (m *Manager) Current() *App {
	return m.current.Load()
}

// Failovers counts successful node switches.
func (m *Manager) Failovers() uint64 {
	return m.failovers.Load()
}

// Failover probes all candidates except the current node concurrently and
// rebinds to a random healthy one, or to the default node if none is healthy.
func (m *Manager) Failover(ctx context.Context) (*App, error) {
	m.failoverMu.Lock()
	defer m.failoverMu.Unlock()

	currentURL := ""
	if app := m.Current(); app != nil {
		currentURL = app.NodeURL()
	}

	candidates := make([]string, 0)
	for _, node := range GetNodeUrls(ctx, m.lister, m.criteria) {
		if node != currentURL {
			candidates = append(candidates, node)
		}
	}

	healthy := m.probe(ctx, candidates)
	logger.Infof("failover from %s: %d/%d candidates healthy", currentURL, len(healthy), len(candidates))
	if len(healthy) == 0 && m.cfg.Network.DefaultNode == currentURL {
		return nil, fmt.Errorf("no healthy node available to replace %s", currentURL)
	}

	app, err := Init(m.cfg, healthy, m.opts...)
	if err != nil {
		return nil, err
	}
	m.swap(app)
	m.failovers.Add(1)
	return app, nil
}

func (m *Manager) probe(ctx context.Context, candidates []string) []string {
	var (
		mu      sync.Mutex
		healthy []string
	)
	err := flowmatic.Each(DefaultMaxConcurrency, candidates, func(nodeURL string) error {
		factory, err := m.builder(nodeURL)
		if err != nil {
			logger.Warnf("skipping candidate %s: %v", nodeURL, err)
			return nil
		}
		defer factory.Close()

		if isNodeHealth(ctx, factory, nodeURL, m.timeout) {
			mu.Lock()
			healthy = append(healthy, nodeURL)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		logger.Errorf("error while probing candidate nodes: %v", err)
	}
	return healthy
}

func (m *Manager) swap(app *App) {
	if old := m.current.Swap(app); old != nil {
		if err := old.Close(); err != nil {
			logger.Warnf("failed to close repository factory for %s: %v", old.NodeURL(), err)
		}
	}
}

// Close releases the current App.
func (m *Manager) Close() error {
	if app := m.current.Swap(nil); app != nil {
		return app.Close()
	}
	return nil
}

// CurrentHealth probes the bound node. It reports unhealthy before Bootstrap.
func (m *Manager) CurrentHealth(ctx context.Context) (string, bool) {
	app := m.Current()
	if app == nil {
		return "", false
	}
	return app.NodeURL(), app.IsNodeHealth(ctx)
}
