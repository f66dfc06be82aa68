//
// Date: 2026-10-15
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2026 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Session state holding the current access token and building
// the implicit grant authorization URL.
//

package spotify

import (
	"net/url"
	"strings"
	"sync"
)

// Session holds the bearer token for the lifetime of the process. A Session
// is safe for concurrent use.
type Session struct {
	clientID    string
	redirectURI string

	mu          sync.RWMutex
	accessToken string
}

// NewSession returns a session with no access token. It refuses to build a
// session from a config that is missing the client ID or redirect URI.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		clientID:    cfg.ClientID,
		redirectURI: cfg.RedirectURI,
	}, nil
}

// AccessToken returns the current token and whether one is set.
func (s *Session) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.accessToken != ""
}

// SetAccessToken replaces the stored token. The value is not validated; an
// empty string clears the session.
func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

// ClearAccessToken discards the stored token.
func (s *Session) ClearAccessToken() {
	s.SetAccessToken("")
}

// AuthURLOption customizes AuthorizationURL.
type AuthURLOption func(*authURLOptions)

type authURLOptions struct {
	state string
}

// WithState sets the state value round-tripped through the redirect.
func WithState(state string) AuthURLOption {
	return func(o *authURLOptions) {
		o.state = state
	}
}

// AuthorizationURL builds the URL the browser must navigate to in order to
// obtain a token. Parameters are always emitted in the same order and scope is
// omitted entirely when no scopes are given. State defaults to "/".
func (s *Session) AuthorizationURL(scopes []string, opts ...AuthURLOption) string {
	o := authURLOptions{state: DefaultState}
	for _, opt := range opts {
		opt(&o)
	}

	var b strings.Builder
	b.WriteString(AuthorizeURL)
	b.WriteString("?response_type=token")
	b.WriteString("&client_id=" + s.clientID)
	if len(scopes) > 0 {
		b.WriteString("&scope=" + encodeURIComponent(strings.Join(scopes, " ")))
	}
	b.WriteString("&redirect_uri=" + encodeURIComponent(s.redirectURI))
	b.WriteString("&show_dialog=true")
	b.WriteString("&state=" + encodeURIComponent(o.state))

	return b.String()
}

// componentUnescaper undoes the differences between url.QueryEscape and the
// browser's encodeURIComponent, which leaves !'()* alone and writes spaces as %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
