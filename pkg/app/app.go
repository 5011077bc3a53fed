package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/symbol/symbol-faucet/pkg/config"
	"github.com/symbol/symbol-faucet/pkg/currency"
	"github.com/symbol/symbol-faucet/pkg/logger"
	"github.com/symbol/symbol-faucet/pkg/statistics"
	"github.com/symbol/symbol-faucet/pkg/symbol"
)

// HealthCheckTimeout bounds every node health probe.
const HealthCheckTimeout = 3 * time.Second

// FactoryBuilder binds a repository factory to a node URL.
type FactoryBuilder func(nodeURL string) (symbol.RepositoryFactory, error)

// App is the faucet facade over the selected node. It is immutable once
// built; cached network values live in the repository factory.
type App struct {
	factory       symbol.RepositoryFactory
	config        *config.Schema
	nodeURL       string
	currency      *currency.Registry
	healthTimeout time.Duration
}

type options struct {
	builder       FactoryBuilder
	rand          *rand.Rand
	currency      *currency.Registry
	healthTimeout time.Duration
}

type Option func(*options)

func WithFactoryBuilder(builder FactoryBuilder) Option {
	return func(o *options) {
		o.builder = builder
	}
}

func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithCurrencyRegistry shares a unit registry between Apps.
func WithCurrencyRegistry(registry *currency.Registry) Option {
	return func(o *options) {
		o.currency = registry
	}
}

// WithHealthTimeout overrides HealthCheckTimeout.
func WithHealthTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.healthTimeout = timeout
	}
}

func resolveOptions(opts []Option) *options {
	o := &options{
		healthTimeout: HealthCheckTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.builder == nil {
		o.builder = func(nodeURL string) (symbol.RepositoryFactory, error) {
			return symbol.NewRepositoryFactoryHTTP(nodeURL)
		}
	}
	if o.currency == nil {
		o.currency = currency.NewDefaultRegistry()
	}
	return o
}

// Init picks one of nodes uniformly at random, or the configured default
// node when nodes is empty, and binds a repository factory to it.
func Init(cfg *config.Schema, nodes []string, opts ...Option) (*App, error) {
	o := resolveOptions(opts)

	nodeURL, err := selectNode(nodes, cfg.Network.DefaultNode, o.rand)
	if err != nil {
		return nil, err
	}

	factory, err := o.builder(nodeURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository factory for %s: %w", nodeURL, err)
	}
	logger.Infof("faucet bound to node %s (%d candidates)", nodeURL, len(nodes))

	return &App{
		factory:       factory,
		config:        cfg,
		nodeURL:       nodeURL,
		currency:      o.currency,
		healthTimeout: o.healthTimeout,
	}, nil
}

func selectNode(nodes []string, defaultNode string, r *rand.Rand) (string, error) {
	candidates := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if node = strings.TrimSpace(node); node != "" {
			candidates = append(candidates, node)
		}
	}
	if len(candidates) == 0 {
		if defaultNode == "" {
			return "", fmt.Errorf("no candidate nodes and no default node configured")
		}
		return defaultNode, nil
	}
	if r != nil {
		return candidates[r.IntN(len(candidates))], nil
	}
	return candidates[rand.IntN(len(candidates))], nil
}

func (a *App) NodeURL() string {
	return a.nodeURL
}

func (a *App) Config() *config.Schema {
	return a.config
}

func (a *App) RepositoryFactory() symbol.RepositoryFactory {
	return a.factory
}

func (a *App) NetworkType(ctx context.Context) (symbol.NetworkType, error) {
	return a.factory.NetworkType(ctx)
}

func (a *App) NetworkGenerationHash(ctx context.Context) (string, error) {
	return a.factory.GenerationHash(ctx)
}

func (a *App) EpochAdjustment(ctx context.Context) (int64, error) {
	return a.factory.EpochAdjustment(ctx)
}

// IsNodeHealth reports whether the bound node's API and database are both up.
// It never fails: errors and timeouts are logged and read as unhealthy.
func (a *App) IsNodeHealth(ctx context.Context) bool {
	return isNodeHealth(ctx, a.factory, a.nodeURL, a.healthTimeout)
}

// FaucetAccount derives the faucet account from the configured private key.
func (a *App) FaucetAccount(ctx context.Context) (*symbol.Account, error) {
	networkType, err := a.NetworkType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get network type: %w", err)
	}
	account, err := symbol.NewAccountFromPrivateKey(a.config.Network.FaucetPrivateKey, networkType)
	if err != nil {
		return nil, fmt.Errorf("failed to derive faucet account: %w", err)
	}
	return account, nil
}

// Balance is the faucet's holding of the network currency mosaic.
type Balance struct {
	Address      string  `json:"address"`
	MosaicID     string  `json:"mosaicId"`
	Divisibility int     `json:"divisibility"`
	Absolute     string  `json:"absoluteAmount"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
}

// FaucetBalance returns the faucet account's network currency balance in
// relative units, using the divisibility the node reports for the mosaic.
func (a *App) FaucetBalance(ctx context.Context) (*Balance, error) {
	account, err := a.FaucetAccount(ctx)
	if err != nil {
		return nil, err
	}
	mosaicID, err := a.factory.CurrencyMosaicID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency mosaic id: %w", err)
	}
	divisibility, err := a.factory.MosaicDivisibility(ctx, mosaicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get divisibility of %s: %w", mosaicID, err)
	}
	if err := a.currency.EnsureMosaicUnits(currency.DefaultXYM.Name, divisibility); err != nil {
		return nil, fmt.Errorf("failed to register currency units: %w", err)
	}
	mosaics, err := a.factory.AccountMosaics(ctx, account.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to get mosaics for %s: %w", account.Address, err)
	}

	balance := &Balance{
		Address:      account.Address,
		MosaicID:     mosaicID,
		Divisibility: divisibility,
		Absolute:     "0",
		Unit:         currency.DefaultXYM.Symbol,
	}
	for _, mosaic := range mosaics {
		if strings.EqualFold(mosaic.ID, mosaicID) {
			balance.Absolute = mosaic.Amount
			break
		}
	}
	balance.Amount, err = a.currency.ConvertAbsolute(balance.Absolute, currency.DefaultXYM.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to convert balance: %w", err)
	}
	return balance, nil
}

func (a *App) Close() error {
	return a.factory.Close()
}

// IsNodeHealth probes checker with HealthCheckTimeout. It always settles
// within the timeout, even if checker ignores its context.
func IsNodeHealth(ctx context.Context, checker symbol.HealthChecker) bool {
	return isNodeHealth(ctx, checker, "", HealthCheckTimeout)
}

func isNodeHealth(ctx context.Context, checker symbol.HealthChecker, nodeURL string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type probe struct {
		health *symbol.NodeHealth
		err    error
	}
	done := make(chan probe, 1)
	go func() {
		health, err := checker.NodeHealth(ctx)
		done <- probe{health: health, err: err}
	}()

	select {
	case <-ctx.Done():
		logger.WarnContext(ctx, "node health probe timed out", "node", nodeURL, "error", ctx.Err())
		return false
	case p := <-done:
		if p.err != nil {
			logger.WarnContext(ctx, "node health probe failed", "node", nodeURL, "error", p.err)
			return false
		}
		if !p.health.IsUp() {
			logger.WarnContext(ctx, "node reported unhealthy", "node", nodeURL, "apiNode", p.health.Status.APINode, "db", p.health.Status.DB)
			return false
		}
		return true
	}
}

// GetNodeUrls lists candidate node URLs from the statistics service. A nil
// lister means no statistics service is configured and yields an empty list
// without network I/O. Fetch failures are logged and also yield an empty list.
func GetNodeUrls(ctx context.Context, lister statistics.NodeLister, criteria statistics.NodeSearchCriteria) []string {
	if lister == nil {
		logger.Infof("statistics service url is not configured, using the default node")
		return []string{}
	}

	records, err := lister.Nodes(ctx, criteria)
	if err != nil {
		logger.Warnf("failed to fetch node list from statistics service: %v", err)
		return []string{}
	}

	urls := make([]string, 0, len(records))
	for _, record := range records {
		if !record.HasAPIStatus || record.Host == "" {
			continue
		}
		urls = append(urls, record.URL())
	}
	logger.Debugf("statistics service returned %d records, %d usable", len(records), len(urls))
	return urls
}
