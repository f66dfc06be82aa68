//
// Date: 2026-10-15
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2026 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Per-login nonce bound to the browser and carried in the OAuth
// state so a returned token can be tied to a login this server started.
//

package spotify

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	loginCookieName = "spotify_login"
	loginCookieTTL  = 10 * time.Minute
)

// newLoginState returns a fresh nonce and the state value that carries it
// together with the path to return to: "<nonce>:<path>".
func newLoginState(returnPath string) (nonce, state string) {
	nonce = uuid.NewString()
	return nonce, nonce + ":" + returnPath
}

// splitLoginState separates a state built by newLoginState.
func splitLoginState(state string) (nonce, returnPath string, ok bool) {
	nonce, returnPath, ok = strings.Cut(state, ":")
	if !ok || nonce == "" {
		return "", "", false
	}
	return nonce, returnPath, true
}

func setLoginCookie(w http.ResponseWriter, r *http.Request, nonce string) {
	http.SetCookie(w, &http.Cookie{
		Name:     loginCookieName,
		Value:    nonce,
		Path:     "/",
		MaxAge:   int(loginCookieTTL / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearLoginCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     loginCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// verifyLoginState checks that state carries the nonce stored in the
// browser's login cookie and returns the path to send the browser to.
func verifyLoginState(r *http.Request, state string) (string, bool) {
	cookie, err := r.Cookie(loginCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	nonce, returnPath, ok := splitLoginState(state)
	if !ok || subtle.ConstantTimeCompare([]byte(nonce), []byte(cookie.Value)) != 1 {
		return "", false
	}
	return SafeRedirect(returnPath), true
}

// sameOrigin rejects requests whose Origin header names another site.
// Requests without an Origin header are left to the nonce check.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return r.Header.Get("Sec-Fetch-Site") != "cross-site"
	}
	return strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://") == r.Host
}
