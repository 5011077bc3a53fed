package symbol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/cache/v9"
	json "github.com/json-iterator/go"
)

const (
	StatusUp   = "up"
	StatusDown = "down"

	DefaultCacheTTL = 5 * time.Minute
)

// ErrNotFound is returned when the node answers 404 for a resource.
var ErrNotFound = errors.New("resource not found")

// RepositoryFactory is the set of node queries the faucet needs.
type RepositoryFactory interface {
	HealthChecker
	NodeURL() string
	NetworkType(ctx context.Context) (NetworkType, error)
	GenerationHash(ctx context.Context) (string, error)
	EpochAdjustment(ctx context.Context) (int64, error)
	CurrencyMosaicID(ctx context.Context) (string, error)
	MosaicDivisibility(ctx context.Context, mosaicID string) (int, error)
	AccountMosaics(ctx context.Context, address string) ([]Mosaic, error)
	Close() error
}

// HealthChecker reports node health.
type HealthChecker interface {
	NodeHealth(ctx context.Context) (*NodeHealth, error)
}

// NodeHealth is the body of GET /node/health.
type NodeHealth struct {
	Status struct {
		APINode string `json:"apiNode"`
		DB      string `json:"db"`
	} `json:"status"`
}

// IsUp is true only if both the API node and its database report "up".
func (h *NodeHealth) IsUp() bool {
	return h != nil && h.Status.APINode == StatusUp && h.Status.DB == StatusUp
}

type Mosaic struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
}

type nodeInfo struct {
	NetworkIdentifier         int    `json:"networkIdentifier"`
	NetworkGenerationHashSeed string `json:"networkGenerationHashSeed"`
	FriendlyName              string `json:"friendlyName"`
}

type networkProperties struct {
	Network struct {
		EpochAdjustment string `json:"epochAdjustment"`
	} `json:"network"`
	Chain struct {
		CurrencyMosaicID string `json:"currencyMosaicId"`
	} `json:"chain"`
}

type mosaicInfo struct {
	Mosaic struct {
		ID           string `json:"id"`
		Divisibility *int   `json:"divisibility"`
	} `json:"mosaic"`
}

type accountInfo struct {
	Account struct {
		Mosaics []Mosaic `json:"mosaics"`
	} `json:"account"`
}

// StatusError is returned for non-200 node responses.
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: received status code %d, body: %s", e.Path, e.StatusCode, e.Body)
}

// RepositoryFactoryHTTP talks to a single node over its REST gateway.
// Static network properties are memoised in the configured cache.
type RepositoryFactoryHTTP struct {
	url        string
	httpClient *http.Client
	cache      *cache.Cache
	cacheTTL   time.Duration
}

type FactoryOption func(*RepositoryFactoryHTTP)

func WithHTTPClient(client *http.Client) FactoryOption {
	return func(f *RepositoryFactoryHTTP) {
		f.httpClient = client
	}
}

func WithTimeout(timeout time.Duration) FactoryOption {
	return func(f *RepositoryFactoryHTTP) {
		f.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithCache shares a property cache between factories.
func WithCache(c *cache.Cache, ttl time.Duration) FactoryOption {
	return func(f *RepositoryFactoryHTTP) {
		f.cache = c
		f.cacheTTL = ttl
	}
}

// NewRepositoryFactoryHTTP validates nodeURL and returns a factory bound to it.
func NewRepositoryFactoryHTTP(nodeURL string, opts ...FactoryOption) (*RepositoryFactoryHTTP, error) {
	nodeURL = strings.TrimRight(strings.TrimSpace(nodeURL), "/")
	if nodeURL == "" {
		return nil, fmt.Errorf("node url cannot be empty")
	}
	parsed, err := url.Parse(nodeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid node url %s: %w", nodeURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid node url %s: scheme must be http or https", nodeURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid node url %s: missing host", nodeURL)
	}

	f := &RepositoryFactoryHTTP{
		url:        nodeURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cacheTTL:   DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.cache == nil {
		f.cache = NewCache(100, f.cacheTTL, nil)
	}
	return f, nil
}

func (f *RepositoryFactoryHTTP) NodeURL() string {
	return f.url
}

// NodeHealth never caches. A 503 carrying a health body is decoded, not an error.
func (f *RepositoryFactoryHTTP) NodeHealth(ctx context.Context) (*NodeHealth, error) {
	status, body, err := f.do(ctx, "/node/health")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusServiceUnavailable {
		return nil, &StatusError{Path: "/node/health", StatusCode: status, Body: string(body)}
	}
	var health NodeHealth
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node health: %w", err)
	}
	return &health, nil
}

func (f *RepositoryFactoryHTTP) NetworkType(ctx context.Context) (NetworkType, error) {
	var networkType NetworkType
	err := f.once(ctx, "networkType", &networkType, func() (any, error) {
		info, err := f.nodeInfo(ctx)
		if err != nil {
			return nil, err
		}
		return ParseNetworkType(info.NetworkIdentifier)
	})
	return networkType, err
}

func (f *RepositoryFactoryHTTP) GenerationHash(ctx context.Context) (string, error) {
	var hash string
	err := f.once(ctx, "generationHash", &hash, func() (any, error) {
		info, err := f.nodeInfo(ctx)
		if err != nil {
			return nil, err
		}
		if info.NetworkGenerationHashSeed == "" {
			return nil, fmt.Errorf("node %s returned an empty generation hash", f.url)
		}
		return info.NetworkGenerationHashSeed, nil
	})
	return hash, err
}

// EpochAdjustment returns the network epoch offset in seconds.
func (f *RepositoryFactoryHTTP) EpochAdjustment(ctx context.Context) (int64, error) {
	var epoch int64
	err := f.once(ctx, "epochAdjustment", &epoch, func() (any, error) {
		props, err := f.networkProperties(ctx)
		if err != nil {
			return nil, err
		}
		return parseEpochAdjustment(props.Network.EpochAdjustment)
	})
	return epoch, err
}

// CurrencyMosaicID returns the network currency mosaic id as 16 upper hex chars.
func (f *RepositoryFactoryHTTP) CurrencyMosaicID(ctx context.Context) (string, error) {
	var id string
	err := f.once(ctx, "currencyMosaicId", &id, func() (any, error) {
		props, err := f.networkProperties(ctx)
		if err != nil {
			return nil, err
		}
		return normalizeHexProperty(props.Chain.CurrencyMosaicID)
	})
	return id, err
}

// AccountMosaics returns the mosaics held by address. Unknown accounts hold nothing.
func (f *RepositoryFactoryHTTP) AccountMosaics(ctx context.Context, address string) ([]Mosaic, error) {
	var info accountInfo
	if err := f.getJSON(ctx, "/accounts/"+url.PathEscape(address), &info); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []Mosaic{}, nil
		}
		return nil, err
	}
	return info.Account.Mosaics, nil
}

// MosaicDivisibility returns the number of decimal places of mosaicID.
func (f *RepositoryFactoryHTTP) MosaicDivisibility(ctx context.Context, mosaicID string) (int, error) {
	id, err := normalizeHexProperty(mosaicID)
	if err != nil {
		return 0, err
	}
	var divisibility int
	err = f.once(ctx, "divisibility:"+id, &divisibility, func() (any, error) {
		var info mosaicInfo
		if err := f.getJSON(ctx, "/mosaics/"+id, &info); err != nil {
			return nil, err
		}
		if info.Mosaic.Divisibility == nil {
			return nil, fmt.Errorf("node %s returned no divisibility for mosaic %s", f.url, id)
		}
		return *info.Mosaic.Divisibility, nil
	})
	return divisibility, err
}

// Close is a no-op; the shared cache and its redis tier belong to the caller.
func (f *RepositoryFactoryHTTP) Close() error {
	return nil
}

func (f *RepositoryFactoryHTTP) nodeInfo(ctx context.Context) (*nodeInfo, error) {
	var info nodeInfo
	if err := f.getJSON(ctx, "/node/info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (f *RepositoryFactoryHTTP) networkProperties(ctx context.Context) (*networkProperties, error) {
	var props networkProperties
	if err := f.getJSON(ctx, "/network/properties", &props); err != nil {
		return nil, err
	}
	return &props, nil
}

func (f *RepositoryFactoryHTTP) once(ctx context.Context, name string, value any, load func() (any, error)) error {
	return f.cache.Once(&cache.Item{
		Ctx:   ctx,
		Key:   cacheKey(f.url, name),
		Value: value,
		TTL:   f.cacheTTL,
		Do: func(*cache.Item) (any, error) {
			return load()
		},
	})
}

func (f *RepositoryFactoryHTTP) getJSON(ctx context.Context, path string, out any) error {
	status, body, err := f.do(ctx, path)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	}
	if status != http.StatusOK {
		return &StatusError{Path: path, StatusCode: status, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", path, err)
	}
	return nil
}

func (f *RepositoryFactoryHTTP) do(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func cacheKey(nodeURL, name string) string {
	return fmt.Sprintf("symbol-faucet:%s:%s", nodeURL, name)
}

// parseEpochAdjustment accepts the catapult property format, e.g. "1615853185s".
func parseEpochAdjustment(raw string) (int64, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), "'", "")
	value = strings.TrimSuffix(value, "s")
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid epoch adjustment %q: %w", raw, err)
	}
	return seconds, nil
}

// normalizeHexProperty turns "0x6BED'913F'A202'23F8" into "6BED913FA20223F8".
func normalizeHexProperty(raw string) (string, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), "'", "")
	value = strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	if _, err := strconv.ParseUint(value, 16, 64); err != nil {
		return "", fmt.Errorf("invalid hex property %q: %w", raw, err)
	}
	return strings.ToUpper(value), nil
}
