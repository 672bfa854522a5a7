package portalclient

import (
	"context"
	"io"
	"net/http"
	"strings"
)

type loginResponse struct {
	Token string   `json:"token"`
	User  *Account `json:"user"`
}

// LoginWithGoogle exchanges a Google ID token for a portal session. Any state
// cached for a previous session is discarded.
func (c *Client) LoginWithGoogle(ctx context.Context, credential string) (*Account, error) {
	var out loginResponse
	req, err := c.request(ctx, &out, false)
	if err != nil {
		return nil, err
	}
	req.SetBody(map[string]string{"credential": credential})
	if err := c.execute(req, http.MethodPost, "/api/auth/google"); err != nil {
		return nil, err
	}
	c.startSession(out)
	return c.Account(), nil
}

// Restore resumes a session from a stored token and reloads the account.
func (c *Client) Restore(ctx context.Context, token string) (*Account, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	c.startSession(loginResponse{Token: token})
	return c.RefreshAccount(ctx)
}

// RefreshToken asks the portal for a new token carrying the account's current role.
func (c *Client) RefreshToken(ctx context.Context) (*Account, error) {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", nil, &out); err != nil {
		return nil, err
	}
	c.startSession(out)
	return c.Account(), nil
}

// Logout revokes the token server-side when possible and always forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.clearSession()
	if IsUnauthenticated(err) {
		return nil
	}
	return err
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.token
}

// Account returns a copy of the cached account, or nil when signed out.
func (c *Client) Account() *Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil || c.session.account == nil {
		return nil
	}
	acct := *c.session.account
	return &acct
}

func (c *Client) RefreshAccount(ctx context.Context) (*Account, error) {
	sess := c.currentSession()
	var acct Account
	if err := c.do(ctx, http.MethodGet, "/api/user/me", nil, &acct); err != nil {
		return nil, err
	}
	stored := acct
	c.setAccount(sess, &stored)
	return &acct, nil
}

// UpdateProfile submits the profile form and replaces the cached account.
// Ward-scoped alert caches are dropped since the ward may have changed.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Account, error) {
	sess := c.currentSession()
	var acct Account
	if err := c.do(ctx, http.MethodPut, "/api/user/profile", update, &acct); err != nil {
		return nil, err
	}
	c.mu.Lock()
	if sess != nil && c.session == sess {
		c.session.account = &acct
	}
	c.cache.alertsByWard = nil
	c.gen++
	c.mu.Unlock()
	return c.Account(), nil
}

// NeedsProfile reports whether the signed-in citizen must complete their
// profile before any complaint action.
func (c *Client) NeedsProfile() bool {
	acct := c.Account()
	return acct != nil && !acct.IsAdmin() && !acct.IsProfileComplete
}

// CanSubmitComplaints applies the citizen gates: a completed profile and a
// verified account.
func (c *Client) CanSubmitComplaints() error {
	acct := c.Account()
	switch {
	case acct == nil:
		return ErrNotAuthenticated
	case acct.IsAdmin():
		return nil
	case !acct.IsProfileComplete:
		return ErrProfileIncomplete
	case !acct.IsVerified:
		return ErrNotVerified
	}
	return nil
}

// UploadImage sends one image and returns its hosted URL.
func (c *Client) UploadImage(ctx context.Context, filename string, body io.Reader) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	req, err := c.request(ctx, &out, true)
	if err != nil {
		return "", err
	}
	req.SetFileReader("image", filename, body)
	if err := c.execute(req, http.MethodPost, "/api/upload"); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) startSession(resp loginResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = &session{token: resp.Token, account: resp.User}
	c.cache = cache{}
	c.gen++
}

func (c *Client) currentSession() *session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// setAccount replaces the account of sess, ignoring responses that arrive
// after sess was replaced or cleared.
func (c *Client) setAccount(sess *session, acct *Account) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sess != nil && c.session == sess {
		c.session.account = acct
	}
}
