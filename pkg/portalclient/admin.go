package portalclient

import (
	"context"
	"net/http"
	"net/url"
)

// Citizens lists citizen accounts for the admin verification queue.
func (c *Client) Citizens(ctx context.Context) ([]Account, error) {
	c.mu.RLock()
	if c.cache.citizensSet {
		out := append([]Account(nil), c.cache.citizens...)
		c.mu.RUnlock()
		return out, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	var list []Account
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &list); err != nil {
		return nil, err
	}
	c.storeIfCurrent(gen, func(cc *cache) {
		cc.citizens = list
		cc.citizensSet = true
	})
	return append([]Account(nil), list...), nil
}

func (c *Client) VerifyUser(ctx context.Context, id string) (*Account, error) {
	var out Account
	if err := c.do(ctx, http.MethodPut, "/api/admin/verify-user/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	c.invalidateCitizens()
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/admin/users/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.invalidateCitizens()
	return nil
}

func (c *Client) invalidateCitizens() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.citizens = nil
	c.cache.citizensSet = false
	c.gen++
}
