package portalclient

import (
	"context"
	"net/http"
	"net/url"
)

// SubmitComplaint files a complaint for the signed-in citizen after checking
// the profile and verification gates locally.
func (c *Client) SubmitComplaint(ctx context.Context, draft ComplaintDraft) (*Complaint, error) {
	if err := c.CanSubmitComplaints(); err != nil {
		return nil, err
	}
	var out Complaint
	if err := c.do(ctx, http.MethodPost, "/api/complaints", draft, &out); err != nil {
		return nil, err
	}
	c.invalidateComplaints()
	return &out, nil
}

// MyComplaints returns the cached list of the caller's complaints, fetching
// it on first use.
func (c *Client) MyComplaints(ctx context.Context) ([]Complaint, error) {
	c.mu.RLock()
	if c.cache.myComplaintsSet {
		list := append([]Complaint(nil), c.cache.myComplaints...)
		c.mu.RUnlock()
		return list, nil
	}
	c.mu.RUnlock()
	return c.RefreshMyComplaints(ctx)
}

func (c *Client) RefreshMyComplaints(ctx context.Context) ([]Complaint, error) {
	gen := c.generation()
	var list []Complaint
	if err := c.do(ctx, http.MethodGet, "/api/complaints/me", nil, &list); err != nil {
		return nil, err
	}
	c.storeIfCurrent(gen, func(cc *cache) {
		cc.myComplaints = list
		cc.myComplaintsSet = true
	})
	return append([]Complaint(nil), list...), nil
}

func (c *Client) MyStats(ctx context.Context) (*Stats, error) {
	c.mu.RLock()
	if c.cache.myStats != nil {
		stats := *c.cache.myStats
		c.mu.RUnlock()
		return &stats, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/api/complaints/me/stats", nil, &stats); err != nil {
		return nil, err
	}
	cached := stats
	c.storeIfCurrent(gen, func(cc *cache) { cc.myStats = &cached })
	out := stats
	return &out, nil
}

// AllComplaints is the admin list. Only the unfiltered list is cached.
func (c *Client) AllComplaints(ctx context.Context, filter ComplaintFilter) ([]Complaint, error) {
	gen := c.generation()
	if filter.isZero() {
		c.mu.RLock()
		if c.cache.allComplaintsSet {
			list := append([]Complaint(nil), c.cache.allComplaints...)
			c.mu.RUnlock()
			return list, nil
		}
		c.mu.RUnlock()
	}

	var list []Complaint
	req, err := c.request(ctx, &list, true)
	if err != nil {
		return nil, err
	}
	req.SetQueryParams(filter.query())
	if err := c.execute(req, http.MethodGet, "/api/admin/complaints"); err != nil {
		return nil, err
	}

	if filter.isZero() {
		c.storeIfCurrent(gen, func(cc *cache) {
			cc.allComplaints = list
			cc.allComplaintsSet = true
		})
	}
	return append([]Complaint(nil), list...), nil
}

func (c *Client) AllStats(ctx context.Context) (*Stats, error) {
	c.mu.RLock()
	if c.cache.allStats != nil {
		stats := *c.cache.allStats
		c.mu.RUnlock()
		return &stats, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/api/admin/complaints/stats", nil, &stats); err != nil {
		return nil, err
	}
	cached := stats
	c.storeIfCurrent(gen, func(cc *cache) { cc.allStats = &cached })
	out := stats
	return &out, nil
}

func (c *Client) UpdateComplaintStatus(ctx context.Context, id string, update StatusUpdate) (*Complaint, error) {
	var out Complaint
	if err := c.do(ctx, http.MethodPut, "/api/admin/complaints/"+url.PathEscape(id), update, &out); err != nil {
		return nil, err
	}
	c.invalidateComplaints()
	return &out, nil
}

func (c *Client) invalidateComplaints() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.myComplaints = nil
	c.cache.myComplaintsSet = false
	c.cache.myStats = nil
	c.cache.allComplaints = nil
	c.cache.allComplaintsSet = false
	c.cache.allStats = nil
	c.gen++
}
