// Package auth holds the bearer credential handed out by the backend's login endpoint.
// The token is never validated here; claims are read unverified for display only.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// ErrNotLoggedIn is returned by Holder.Token when no credential is present.
var ErrNotLoggedIn = errors.New("not logged in")

// Credential is an opaque bearer token.
type Credential struct {
	token string
}

func NewCredential(token string) (*Credential, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.NewValidationError("bearer token is empty")
	}
	return &Credential{token: token}, nil
}

func (c *Credential) Token() string {
	return c.token
}

// TokenSource exposes the credential as a static oauth2 bearer token.
func (c *Credential) TokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token, TokenType: "Bearer"})
}

// Claims is the subset of token claims worth showing to the user.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Claims parses the token without verifying its signature. ok is false for tokens that are not JWTs.
func (c *Credential) Claims() (Claims, bool) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.token, mc); err != nil {
		return Claims{}, false
	}

	var out Claims
	if uid, ok := mc["user_id"].(string); ok {
		out.Subject = uid
	} else if sub, err := mc.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time.UTC()
	}
	return out, true
}

// Describe renders "subject (expires ...)" or "unknown" for opaque tokens.
func (c *Credential) Describe() string {
	claims, ok := c.Claims()
	if !ok || claims.Subject == "" {
		return "unknown"
	}
	if claims.ExpiresAt.IsZero() {
		return claims.Subject
	}
	return fmt.Sprintf("%s (expires %s)", claims.Subject, claims.ExpiresAt.Format(time.RFC3339))
}

// User is the credential's owner as shown by GET /api/auth/me.
func (c *Credential) User() dto.SessionUser {
	u := dto.SessionUser{Subject: "unknown"}
	if claims, ok := c.Claims(); ok {
		if claims.Subject != "" {
			u.Subject = claims.Subject
		}
		if !claims.ExpiresAt.IsZero() {
			u.ExpiresAt = claims.ExpiresAt.Format(time.RFC3339)
		}
	}
	return u
}

// Holder keeps the current credential in memory for a single front end. It is an
// oauth2.TokenSource, so a session can hold it and always send the latest token.
type Holder struct {
	mu   sync.RWMutex
	cred *Credential
}

func (h *Holder) Set(c *Credential) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cred = c
}

// Clear drops the credential; this is all logout does.
func (h *Holder) Clear() {
	h.Set(nil)
}

func (h *Holder) Current() *Credential {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cred
}

func (h *Holder) Token() (*oauth2.Token, error) {
	c := h.Current()
	if c == nil {
		return nil, ErrNotLoggedIn
	}
	return &oauth2.Token{AccessToken: c.token, TokenType: "Bearer"}, nil
}

var _ oauth2.TokenSource = (*Holder)(nil)
