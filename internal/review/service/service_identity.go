package service

import "strings"

// Identity is the authenticated account attempting an action, as extracted
// from the session claims.
type Identity struct {
	Id    string
	Email string
}

// EmailMatches compares the invitation's target email to the authenticated
// identity's email, case-insensitively. No further normalization is applied:
// surrounding whitespace or provider aliases ("user+tag@...") do not match.
// That is a known limitation of the invitation contract, not an oversight.
func EmailMatches(targetEmail, identityEmail string) bool {
	return strings.ToLower(targetEmail) == strings.ToLower(identityEmail)
}
