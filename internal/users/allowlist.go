package users

import "strings"

// Allowlist holds the administrator email addresses. Matching is exact and
// case-sensitive; surrounding whitespace in the configured values is dropped.
type Allowlist struct {
	emails map[string]struct{}
}

// NewAllowlist builds an allowlist from configuration values.
func NewAllowlist(emails []string) Allowlist {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		set[email] = struct{}{}
	}
	return Allowlist{emails: set}
}

// Contains reports whether email is granted the admin role.
func (a Allowlist) Contains(email string) bool {
	_, ok := a.emails[email]
	return ok
}

// Len returns the number of configured administrators.
func (a Allowlist) Len() int {
	return len(a.emails)
}
