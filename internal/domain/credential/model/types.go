package model

import (
	"time"

	"golang.org/x/oauth2"
)

// Credential is the persisted bearer token pair.
type Credential struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// Empty reports whether no access token is present.
func (c Credential) Empty() bool {
	return c.AccessToken == ""
}

// OAuth2 converts the credential for use with an oauth2 token source.
func (c Credential) OAuth2() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
	}
	if c.ExpiresAt != nil {
		tok.Expiry = *c.ExpiresAt
	}
	return tok
}

// Logger provides the minimal logging contract required by the credential domain.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
