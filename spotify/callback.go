//
// Date: 2026-10-15
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2026 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Parsing of the URL fragment Spotify appends to the redirect URI
// at the end of the implicit grant flow.
//

package spotify

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// AuthorizationError is returned when Spotify redirects back with an error
// instead of a token, e.g. when the user denies access.
type AuthorizationError struct {
	Code        string
	Description string
	State       string
}

func (e *AuthorizationError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("spotify authorization failed: %s (%s)", e.Code, e.Description)
	}
	return "spotify authorization failed: " + e.Code
}

// CallbackResult is the token information carried in the redirect fragment.
type CallbackResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
	State       string
}

// ParseCallbackFragment parses a fragment such as
// "#access_token=...&token_type=Bearer&expires_in=3600&state=%2F".
func ParseCallbackFragment(fragment string) (*CallbackResult, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse callback fragment: %w", err)
	}

	if code := values.Get("error"); code != "" {
		return nil, &AuthorizationError{
			Code:        code,
			Description: values.Get("error_description"),
			State:       values.Get("state"),
		}
	}

	result := &CallbackResult{
		AccessToken: values.Get("access_token"),
		TokenType:   values.Get("token_type"),
		State:       values.Get("state"),
	}
	if result.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}

	if raw := values.Get("expires_in"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("invalid expires_in %q", raw)
		}
		result.ExpiresIn = time.Duration(seconds) * time.Second
	}

	return result, nil
}

// Token converts the result to an oauth2 token. Expiry is left zero when
// Spotify did not send expires_in.
func (r *CallbackResult) Token(now time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken: r.AccessToken,
		TokenType:   r.TokenType,
	}
	if r.ExpiresIn > 0 {
		tok.Expiry = now.Add(r.ExpiresIn)
	}
	return tok
}

// SafeRedirect returns state if it is a path on this host, otherwise "/".
func SafeRedirect(state string) string {
	if !strings.HasPrefix(state, "/") || strings.HasPrefix(state, "//") || strings.HasPrefix(state, "/\\") {
		return DefaultState
	}

	u, err := url.Parse(state)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return DefaultState
	}
	return state
}
