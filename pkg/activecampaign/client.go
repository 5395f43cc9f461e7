// Package activecampaign provides an API-token client for the
// ActiveCampaign v3 REST API.
package activecampaign

import (
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

// pageLimit is the page size used for list endpoints.
const pageLimit = 100

// ErrForbidden marks 401/402/403 responses: bad token or an account
// plan without the requested object type.
var ErrForbidden = eris.New("activecampaign: access denied")

// Record is one raw ActiveCampaign record. The API mixes strings and
// numbers across fields, so every value is stringified.
type Record struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// Client defines the ActiveCampaign operations the reconciler needs.
type Client interface {
	// ListContacts pages through every contact.
	ListContacts(ctx context.Context) ([]Record, error)
	// ListDeals pages through every deal.
	ListDeals(ctx context.Context) ([]Record, error)
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
	baseURL string
	token   string
	hc      *http.Client
	limiter *rate.Limiter
}

// NewClient creates an ActiveCampaign client for the given account API
// URL (https://<account>.api-us1.com) and API token.
func NewClient(apiURL, token string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		token:   token,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) ListContacts(ctx context.Context) ([]Record, error) {
	return c.list(ctx, "contacts")
}

func (c *httpClient) ListDeals(ctx context.Context) ([]Record, error) {
	return c.list(ctx, "deals")
}

// list pages through /api/3/<collection> using limit/offset until a
// page comes back short.
func (c *httpClient) list(ctx context.Context, collection string) ([]Record, error) {
	var all []Record
	offset := 0
	for {
		q := url.Values{}
		q.Set("limit", fmt.Sprint(pageLimit))
		q.Set("offset", fmt.Sprint(offset))

		var page map[string]json.RawMessage
		if err := c.get(ctx, "/api/3/"+collection+"?"+q.Encode(), &page); err != nil {
			return nil, eris.Wrapf(err, "activecampaign: list %s", collection)
		}

		var rows []map[string]any
		if raw, ok := page[collection]; ok {
			if err := json.Unmarshal(raw, &rows); err != nil {
				return nil, eris.Wrapf(err, "activecampaign: decode %s", collection)
			}
		}
		for _, row := range rows {
			all = append(all, toRecord(row))
		}

		if len(rows) < pageLimit {
			return all, nil
		}
		offset += pageLimit
	}
}

// toRecord flattens one API row into string fields. Nulls and nested
// values are dropped; the reconciler only compares scalar fields.
func toRecord(row map[string]any) Record {
	rec := Record{Fields: make(map[string]string, len(row))}
	for k, v := range row {
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case float64:
			s = formatNumber(val)
		case bool:
			s = fmt.Sprint(val)
		default:
			continue
		}
		if k == "id" {
			rec.ID = s
			continue
		}
		rec.Fields[k] = s
	}
	return rec
}

// formatNumber renders whole numbers without an exponent or trailing
// zeros so IDs and cent values survive the float64 round trip.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "rate limit")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "build request")
	}
	req.Header.Set("Api-Token", c.token)

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

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrap(err, "decode response")
	}
	return nil
}
