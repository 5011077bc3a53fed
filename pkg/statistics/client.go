package statistics

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"
)

const (
	httpsPort = 3001
	httpPort  = 3000
)

// NodeRecord is the subset of a statistics service node entry the faucet uses.
type NodeRecord struct {
	Host         string
	FriendlyName string
	HasAPIStatus bool
	HTTPSEnabled bool
}

// URL returns https://host:3001 when the REST gateway serves TLS, else http://host:3000.
func (r NodeRecord) URL() string {
	if r.HTTPSEnabled {
		return fmt.Sprintf("https://%s:%d", r.Host, httpsPort)
	}
	return fmt.Sprintf("http://%s:%d", r.Host, httpPort)
}

// NodeLister lists candidate nodes.
type NodeLister interface {
	Nodes(ctx context.Context, criteria NodeSearchCriteria) ([]NodeRecord, error)
}

// Client queries the node statistics service.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *fasthttp.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client: &fasthttp.Client{
			Name:                     "symbol-faucet",
			NoDefaultUserAgentHeader: true,
		},
	}
}

// Nodes fetches {base}/nodes and returns every record, including those
// without apiStatus (HasAPIStatus reports it).
func (c *Client) Nodes(ctx context.Context, criteria NodeSearchCriteria) ([]NodeRecord, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("nodeFilter", string(criteria.Filter))
	query.Set("limit", strconv.Itoa(criteria.Limit))
	if criteria.SSL != nil {
		query.Set("ssl", strconv.FormatBool(*criteria.SSL))
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.SetRequestURI(c.baseURL + "/nodes?" + query.Encode())

	if err := c.client.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		return nil, fmt.Errorf("failed to query statistics service: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("statistics service returned status code %d, body: %s", resp.StatusCode(), string(resp.Body()))
	}

	return parseNodes(resp.Body())
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

func parseNodes(body []byte) ([]NodeRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("statistics service returned invalid json")
	}
	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, fmt.Errorf("statistics service returned %s, expected an array", result.Type)
	}

	records := make([]NodeRecord, 0, len(result.Array()))
	result.ForEach(func(_, node gjson.Result) bool {
		apiStatus := node.Get("apiStatus")
		records = append(records, NodeRecord{
			Host:         node.Get("host").String(),
			FriendlyName: node.Get("friendlyName").String(),
			HasAPIStatus: apiStatus.Exists() && apiStatus.Type != gjson.Null,
			HTTPSEnabled: apiStatus.Get("isHttpsEnabled").Bool(),
		})
		return true
	})
	return records, nil
}
