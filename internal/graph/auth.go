package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// Permission scopes required by mailbox operations.
const (
	// ScopeMailRead allows reading mail messages and folders.
	ScopeMailRead = "Mail.Read"
	// ScopeMailReadWrite allows creating and updating mail messages and folders.
	ScopeMailReadWrite = "Mail.ReadWrite"
)

// ErrInsufficientScope indicates the access token lacks a required permission.
var ErrInsufficientScope = errors.New("graph: insufficient scope")

// TokenProvider supplies access tokens for Graph requests.
type TokenProvider interface {
	// Token returns a valid access token.
	Token(ctx context.Context) (string, error)
	// Scopes returns the permission scopes granted to the token.
	Scopes() []string
}

// RequireScope verifies the token carries the required permission scope.
// Mutating operations must call this before issuing any request.
func RequireScope(tp TokenProvider, required string) error {
	for _, granted := range tp.Scopes() {
		if scopeSatisfies(granted, required) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInsufficientScope, required)
}

// scopeSatisfies reports whether a granted scope covers the required one.
// A ReadWrite grant covers the Read scope for the same resource, and a
// Shared variant covers its base scope.
func scopeSatisfies(granted, required string) bool {
	granted = strings.TrimSuffix(granted, ".Shared")
	if strings.EqualFold(granted, required) {
		return true
	}
	if res, ok := strings.CutSuffix(required, ".Read"); ok {
		return strings.EqualFold(granted, res+".ReadWrite")
	}
	return false
}

// StaticTokenProvider wraps a pre-acquired access token.
type StaticTokenProvider struct {
	AccessToken   string
	GrantedScopes []string
}

// Token returns the wrapped access token.
func (p *StaticTokenProvider) Token(_ context.Context) (string, error) {
	if p.AccessToken == "" {
		return "", ErrUnauthorised
	}
	return p.AccessToken, nil
}

// Scopes returns the scopes granted to the token.
func (p *StaticTokenProvider) Scopes() []string {
	return p.GrantedScopes
}

// TokenSourceProvider adapts an oauth2.TokenSource, letting the source
// handle refresh when the access token expires.
type TokenSourceProvider struct {
	Source        oauth2.TokenSource
	GrantedScopes []string
}

// Token fetches a valid access token from the underlying source.
func (p *TokenSourceProvider) Token(_ context.Context) (string, error) {
	tok, err := p.Source.Token()
	if err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	return tok.AccessToken, nil
}

// Scopes returns the scopes granted to the token.
func (p *TokenSourceProvider) Scopes() []string {
	return p.GrantedScopes
}
