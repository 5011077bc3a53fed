package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

type Schema struct {
	Global      Global       `yaml:"global"`
	Network     Network      `yaml:"network"`
	Statistics  *Statistics  `yaml:"statistics"`
	Cache       Cache        `yaml:"cache"`
	HealthCheck *HealthCheck `yaml:"healthCheck"`
	RateLimit   *RateLimit   `yaml:"rateLimit"`
}

type Global struct {
	Environment string `yaml:"environment"`
	ListenAddr  string `yaml:"listenAddr"`
	LogLevel    string `yaml:"logLevel"`
}

// Network describes the Symbol node the faucet talks to and the faucet key.
type Network struct {
	DefaultNode         string `yaml:"defaultNode"`
	DefaultNodeEnv      string `yaml:"defaultNodeEnv"`
	FaucetPrivateKey    string `yaml:"faucetPrivateKey"`
	FaucetPrivateKeyEnv string `yaml:"faucetPrivateKeyEnv"`
	RequestTimeout      int    `yaml:"requestTimeout"` // seconds, default 10
}

// Statistics points at the node statistics service used to discover nodes.
type Statistics struct {
	URL    string `yaml:"url"`
	URLEnv string `yaml:"urlEnv"`
	Filter string `yaml:"filter"` // preferred or suggested
	Limit  int    `yaml:"limit"`
	SSL    *bool  `yaml:"ssl"`
}

// Cache configures the network property cache of the repository factory.
type Cache struct {
	TTL          int    `yaml:"ttl"` // seconds, default 300
	Size         int    `yaml:"size"`
	RedisAddr    string `yaml:"redisAddr"`
	RedisAddrEnv string `yaml:"redisAddrEnv"`
	RedisDB      int    `yaml:"redisDB"`
}

// HealthCheck configures the node watchdog
type HealthCheck struct {
	Enabled          bool   `yaml:"enabled"`
	Schedule         string `yaml:"schedule"` // Cron expression, e.g. "@every 1m"
	FailureThreshold int    `yaml:"failureThreshold"`
}

type RateLimit struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

func (s *Schema) Normalize() error {
	if s.Global.ListenAddr == "" {
		s.Global.ListenAddr = ":4000"
	}
	if s.Global.LogLevel == "" {
		s.Global.LogLevel = "info"
	}
	if err := s.Network.Normalize(); err != nil {
		return fmt.Errorf("failed to normalize network config: %w", err)
	}
	if s.Statistics != nil {
		if err := s.Statistics.Normalize(); err != nil {
			return fmt.Errorf("failed to normalize statistics config: %w", err)
		}
	}
	if err := s.Cache.Normalize(); err != nil {
		return fmt.Errorf("failed to normalize cache config: %w", err)
	}
	if s.HealthCheck != nil {
		s.HealthCheck.Normalize()
	}
	if s.RateLimit != nil {
		s.RateLimit.Normalize()
	}
	return nil
}

func (n *Network) Normalize() error {
	n.DefaultNode = envOverride(n.DefaultNode, n.DefaultNodeEnv)
	n.FaucetPrivateKey = strings.TrimSpace(envOverride(n.FaucetPrivateKey, n.FaucetPrivateKeyEnv))
	n.DefaultNode = strings.TrimRight(strings.TrimSpace(n.DefaultNode), "/")
	if n.RequestTimeout == 0 {
		n.RequestTimeout = 10
	}
	return nil
}

func (st *Statistics) Normalize() error {
	st.URL = strings.TrimRight(envOverride(st.URL, st.URLEnv), "/")
	if st.Filter == "" {
		st.Filter = "preferred"
	}
	if st.Limit == 0 {
		st.Limit = 30
	}
	return nil
}

// StatisticsURL returns the statistics service base URL, empty when not configured.
func (s *Schema) StatisticsURL() string {
	if s.Statistics == nil {
		return ""
	}
	return s.Statistics.URL
}

func (c *Cache) Normalize() error {
	c.RedisAddr = envOverride(c.RedisAddr, c.RedisAddrEnv)
	if c.TTL == 0 {
		c.TTL = 300
	}
	if c.Size == 0 {
		c.Size = 1000
	}
	return nil
}

func (h *HealthCheck) Normalize() {
	if h.Schedule == "" {
		h.Schedule = "@every 1m" // Default to every minute
	}
	if h.FailureThreshold == 0 {
		h.FailureThreshold = 3
	}
}

func (r *RateLimit) Normalize() {
	if r.RPS == 0 {
		r.RPS = 5
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
}

func envOverride(value, envName string) string {
	if envName == "" {
		return value
	}
	if envValue := os.Getenv(envName); envValue != "" {
		return envValue
	}
	return value
}

func ReadConfigWithError(r io.Reader) (*Schema, error) {
	config := &Schema{}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Normalize(); err != nil {
		return nil, fmt.Errorf("failed to normalize config: %w", err)
	}
	return config, nil
}

// ReadConfigFile opens path and decodes it with ReadConfigWithError.
func ReadConfigFile(path string) (*Schema, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()
	return ReadConfigWithError(file)
}
