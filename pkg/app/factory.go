package app

import (
	"net/http"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"github.com/symbol/symbol-faucet/pkg/config"
	"github.com/symbol/symbol-faucet/pkg/logger"
	"github.com/symbol/symbol-faucet/pkg/statistics"
	"github.com/symbol/symbol-faucet/pkg/symbol"
)

// Resources owns what is shared by every factory built for a config:
// the property cache and its optional redis tier.
type Resources struct {
	Cache *cache.Cache
	redis *redis.Client
}

func NewResources(cfg *config.Schema) *Resources {
	rdb := symbol.NewRedisClient(cfg.Cache.RedisAddr, cfg.Cache.RedisDB)
	if rdb != nil {
		logger.Infof("network property cache backed by redis at %s", cfg.Cache.RedisAddr)
	}
	return &Resources{
		Cache: symbol.NewCache(cfg.Cache.Size, time.Duration(cfg.Cache.TTL)*time.Second, rdb),
		redis: rdb,
	}
}

func (r *Resources) Close() error {
	if r.redis != nil {
		return r.redis.Close()
	}
	return nil
}

// NewFactoryBuilder returns a builder producing HTTP factories that share res.
func NewFactoryBuilder(cfg *config.Schema, res *Resources) FactoryBuilder {
	ttl := time.Duration(cfg.Cache.TTL) * time.Second
	timeout := time.Duration(cfg.Network.RequestTimeout) * time.Second
	httpClient := &http.Client{Timeout: timeout}
	return func(nodeURL string) (symbol.RepositoryFactory, error) {
		return symbol.NewRepositoryFactoryHTTP(nodeURL,
			symbol.WithHTTPClient(httpClient),
			symbol.WithCache(res.Cache, ttl))
	}
}

// NewNodeLister returns nil when no statistics service is configured.
func NewNodeLister(cfg *config.Schema) statistics.NodeLister {
	if cfg.StatisticsURL() == "" {
		return nil
	}
	return statistics.NewClient(cfg.StatisticsURL(), time.Duration(cfg.Network.RequestTimeout)*time.Second)
}

// CriteriaFromConfig builds the node search criteria from the statistics section.
func CriteriaFromConfig(cfg *config.Schema) statistics.NodeSearchCriteria {
	criteria := statistics.NodeSearchCriteria{Filter: statistics.Preferred, Limit: 30}
	if cfg.Statistics == nil {
		return criteria
	}
	if filter, err := statistics.ParseFilter(cfg.Statistics.Filter); err == nil {
		criteria.Filter = filter
	}
	if cfg.Statistics.Limit > 0 {
		criteria.Limit = cfg.Statistics.Limit
	}
	criteria.SSL = cfg.Statistics.SSL
	return criteria
}
