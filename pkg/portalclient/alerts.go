package portalclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Alerts returns the alerts visible to ward, cached per ward. The endpoint is
// public so no session is required.
func (c *Client) Alerts(ctx context.Context, ward string) ([]Alert, error) {
	ward = strings.TrimSpace(ward)
	c.mu.RLock()
	if list, ok := c.cache.alertsByWard[ward]; ok {
		out := append([]Alert(nil), list...)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()
	return c.RefreshAlerts(ctx, ward)
}

func (c *Client) RefreshAlerts(ctx context.Context, ward string) ([]Alert, error) {
	ward = strings.TrimSpace(ward)
	gen := c.generation()
	var list []Alert
	req, err := c.request(ctx, &list, false)
	if err != nil {
		return nil, err
	}
	if err := c.execute(req, http.MethodGet, "/api/alerts/"+url.PathEscape(ward)); err != nil {
		return nil, err
	}

	c.storeIfCurrent(gen, func(cc *cache) {
		if cc.alertsByWard == nil {
			cc.alertsByWard = map[string][]Alert{}
		}
		cc.alertsByWard[ward] = list
	})
	return append([]Alert(nil), list...), nil
}

// AllAlerts is the admin view of every alert.
func (c *Client) AllAlerts(ctx context.Context) ([]Alert, error) {
	c.mu.RLock()
	if c.cache.allAlertsSet {
		out := append([]Alert(nil), c.cache.allAlerts...)
		c.mu.RUnlock()
		return out, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	var list []Alert
	if err := c.do(ctx, http.MethodGet, "/api/admin/alerts", nil, &list); err != nil {
		return nil, err
	}
	c.storeIfCurrent(gen, func(cc *cache) {
		cc.allAlerts = list
		cc.allAlertsSet = true
	})
	return append([]Alert(nil), list...), nil
}

func (c *Client) SendAlert(ctx context.Context, draft AlertDraft) (*Alert, error) {
	var out Alert
	if err := c.do(ctx, http.MethodPost, "/api/admin/send-alert", draft, &out); err != nil {
		return nil, err
	}
	c.invalidateAlerts()
	return &out, nil
}

func (c *Client) DeleteAlert(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/admin/alerts/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.invalidateAlerts()
	return nil
}

func (c *Client) invalidateAlerts() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.alertsByWard = nil
	c.cache.allAlerts = nil
	c.cache.allAlertsSet = false
	c.gen++
}
