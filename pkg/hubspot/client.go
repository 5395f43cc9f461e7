// Package hubspot provides a token-authenticated client for the
// HubSpot CRM v3 objects API.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.hubapi.com"

// pageLimit is the maximum page size the v3 objects API allows.
const pageLimit = 100

// ErrForbidden marks 401/402/403 responses: bad token or an account
// tier that does not include the requested object type. Callers treat
// it as "platform has nothing to offer", not as a transport fault.
var ErrForbidden = eris.New("hubspot: access denied")

// Object is one CRM record as returned by the v3 API.
type Object struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// Client defines the HubSpot operations the reconciler needs.
type Client interface {
	// ListObjects pages through every record of the object type,
	// requesting the given properties.
	ListObjects(ctx context.Context, objectType string, properties []string) ([]Object, error)
	// GetDeal fetches one deal's current state.
	GetDeal(ctx context.Context, id string) (Object, error)
	// UpdateDealCloseDate patches a deal's close date.
	UpdateDealCloseDate(ctx context.Context, id string, closeDate time.Time) error
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.hc = hc }
}

// WithRateLimit sets a per-second request rate limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type httpClient struct {
	token   string
	baseURL string
	hc      *http.Client
	limiter *rate.Limiter
}

// NewClient creates a HubSpot client using the given private app token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

type listResponse struct {
	Results []Object `json:"results"`
	Paging  *struct {
		Next *struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

func (c *httpClient) ListObjects(ctx context.Context, objectType string, properties []string) ([]Object, error) {
	var all []Object
	after := ""
	for {
		q := url.Values{}
		q.Set("limit", fmt.Sprint(pageLimit))
		if len(properties) > 0 {
			q.Set("properties", strings.Join(properties, ","))
		}
		if after != "" {
			q.Set("after", after)
		}

		var page listResponse
		if err := c.get(ctx, "/crm/v3/objects/"+objectType+"?"+q.Encode(), &page); err != nil {
			return nil, eris.Wrapf(err, "hubspot: list %s", objectType)
		}
		all = append(all, page.Results...)

		if page.Paging == nil || page.Paging.Next == nil || page.Paging.Next.After == "" {
			return all, nil
		}
		after = page.Paging.Next.After
	}
}

func (c *httpClient) GetDeal(ctx context.Context, id string) (Object, error) {
	var obj Object
	path := "/crm/v3/objects/deals/" + id + "?properties=dealname,dealstage,amount,closedate"
	if err := c.get(ctx, path, &obj); err != nil {
		return Object{}, eris.Wrapf(err, "hubspot: get deal %s", id)
	}
	return obj, nil
}

func (c *httpClient) UpdateDealCloseDate(ctx context.Context, id string, closeDate time.Time) error {
	body := map[string]any{
		"properties": map[string]string{
			"closedate": closeDate.UTC().Format(time.RFC3339),
		},
	}
	if err := c.do(ctx, http.MethodPatch, "/crm/v3/objects/deals/"+id, body, nil); err != nil {
		return eris.Wrapf(err, "hubspot: update deal %s close date", id)
	}
	return nil
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *httpClient) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.wait(ctx); err != nil {
		return eris.Wrap(err, "rate limit")
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return eris.Wrap(err, "marshal body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return eris.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return eris.Wrap(err, "request")
	}
	defer resp.Body.Close() //nolint:errcheck

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusPaymentRequired, http.StatusForbidden:
		return eris.Wrapf(ErrForbidden, "status %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return eris.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrap(err, "decode response")
	}
	return nil
}
