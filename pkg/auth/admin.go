package auth

import "strings"

// Allowlist is the set of email addresses allowed to use the admin API.
// Comparison is case-insensitive.
type Allowlist map[string]struct{}

// ParseAdminEmails splits a comma-separated ADMIN_EMAILS value.
func ParseAdminEmails(s string) []string {
	var out []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// NewAllowlist builds an Allowlist from emails.
func NewAllowlist(emails []string) Allowlist {
	a := make(Allowlist, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			a[e] = struct{}{}
		}
	}
	return a
}

// Allows reports whether email is on the list.
func (a Allowlist) Allows(email string) bool {
	_, ok := a[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
