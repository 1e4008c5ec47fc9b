// Package fence provides session-cookie-authenticated access to the
// Fence360 CRM search, contract, and job endpoints.
package fence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Default base URL for the Fence360 API.
const defaultBaseURL = "https://www.fence360.net"

// Client defines the Fence360 API operations.
type Client interface {
	// SearchLeads runs the fuzzy name search. When trackStates is
	// non-empty, only leads whose track_state is in the list are returned.
	SearchLeads(ctx context.Context, query string, trackStates ...int) ([]Lead, error)

	// ContractsByLead lists a lead's contracts. When statuses is
	// non-empty, only contracts whose status is in the list are returned.
	ContractsByLead(ctx context.Context, leadID int64, statuses ...string) ([]Contract, error)

	// ContractDetail fetches the full contract record.
	ContractDetail(ctx context.Context, contractID int64) (*ContractDetail, error)

	// Job fetches a work order by ID.
	Job(ctx context.Context, jobID int64) (*Job, error)

	// WithSession returns a client that authenticates with the given
	// session cookie instead of the configured one. The underlying
	// transport and rate limiter are shared.
	WithSession(cookie string) Client
}

// APIError is returned when the CRM responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fence: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit for CRM calls.
// A burst equal to the integer portion of rps is allowed.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	cookie  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Fence360 client authenticating with the given
// session cookie.
func NewClient(cookie string, opts ...Option) Client {
	c := &httpClient{
		cookie:  cookie,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) WithSession(cookie string) Client {
	if cookie == "" {
		return c
	}
	derived := *c
	derived.cookie = cookie
	return &derived
}

func (c *httpClient) SearchLeads(ctx context.Context, query string, trackStates ...int) ([]Lead, error) {
	var resp searchResponse
	if err := c.get(ctx, "/x/v2/search?q="+url.QueryEscape(query), &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("fence: search leads %q", query))
	}
	if len(trackStates) == 0 {
		return resp.Leads, nil
	}
	filtered := make([]Lead, 0, len(resp.Leads))
	for _, lead := range resp.Leads {
		if slices.Contains(trackStates, lead.TrackState) {
			filtered = append(filtered, lead)
		}
	}
	return filtered, nil
}

func (c *httpClient) ContractsByLead(ctx context.Context, leadID int64, statuses ...string) ([]Contract, error) {
	var contracts []Contract
	if err := c.get(ctx, fmt.Sprintf("/x/v4/contracts/by-lead/%d", leadID), &contracts); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("fence: contracts for lead %d", leadID))
	}
	if len(statuses) == 0 {
		return contracts, nil
	}
	filtered := make([]Contract, 0, len(contracts))
	for _, contract := range contracts {
		if slices.Contains(statuses, contract.Status) {
			filtered = append(filtered, contract)
		}
	}
	return filtered, nil
}

func (c *httpClient) ContractDetail(ctx context.Context, contractID int64) (*ContractDetail, error) {
	var detail ContractDetail
	if err := c.get(ctx, fmt.Sprintf("/x/v4/contracts/%d", contractID), &detail); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("fence: contract detail %d", contractID))
	}
	return &detail, nil
}

func (c *httpClient) Job(ctx context.Context, jobID int64) (*Job, error) {
	var job Job
	if err := c.get(ctx, fmt.Sprintf("/x/v5/jobs/%d", jobID), &job); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("fence: job %d", jobID))
	}
	return &job, nil
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", c.cookie)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}

	return nil
}
