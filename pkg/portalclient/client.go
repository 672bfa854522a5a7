// Package portalclient is a Go client for the civic portal API that keeps the
// signed-in session and the complaint and alert lists cached locally. Lists
// are fetched wholesale and dropped whenever a mutation could change them.
package portalclient

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/halisahar-connect/civic-portal/pkg/types"
)

const defaultTimeout = 30 * time.Second

type Option func(*resty.Client)

// WithHTTPClient swaps the underlying transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *resty.Client) {
		c.SetTransport(hc.Transport)
		if hc.Timeout > 0 {
			c.SetTimeout(hc.Timeout)
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

// Client is safe for concurrent use.
type Client struct {
	http *resty.Client

	mu      sync.RWMutex
	session *session
	cache   cache
	// gen moves on every session change and invalidation. A fetch started
	// under an older gen must not write its result back.
	gen uint64
}

type session struct {
	token   string
	account *Account
}

type cache struct {
	myComplaints    []Complaint
	myComplaintsSet bool
	myStats         *Stats

	allComplaints    []Complaint
	allComplaintsSet bool
	allStats         *Stats

	alertsByWard map[string][]Alert
	allAlerts    []Alert
	allAlertsSet bool

	citizens    []Account
	citizensSet bool
}

func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(rc)
	}
	return &Client{http: rc}
}

func (c *Client) request(ctx context.Context, dest any, authed bool) (*resty.Request, error) {
	req := c.http.R().SetContext(ctx).SetError(&types.ErrorEnvelope{})
	if dest != nil {
		req.SetResult(successOf(dest))
	}
	if authed {
		token := c.Token()
		if token == "" {
			return nil, ErrNotAuthenticated
		}
		req.SetAuthToken(token)
	}
	return req, nil
}

// execute runs the request and turns error envelopes into *APIError. A
// rejected token drops the local session.
func (c *Client) execute(req *resty.Request, method, path string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode()}
	if env, ok := resp.Error().(*types.ErrorEnvelope); ok && env != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Details = env.Error.Details
	}
	if IsUnauthenticated(apiErr) {
		c.clearSession()
	}
	return apiErr
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	req, err := c.request(ctx, dest, true)
	if err != nil {
		return err
	}
	if body != nil {
		req.SetBody(body)
	}
	return c.execute(req, method, path)
}

func (c *Client) clearSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
	c.cache = cache{}
	c.gen++
}

func (c *Client) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// storeIfCurrent applies fn to the cache unless the session changed or a
// mutation invalidated it since gen was read.
func (c *Client) storeIfCurrent(gen uint64, fn func(*cache)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	fn(&c.cache)
}

func successOf(dest any) *types.SuccessEnvelope {
	return &types.SuccessEnvelope{Data: dest}
}
