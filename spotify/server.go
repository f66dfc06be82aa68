//
// Date: 2026-10-15
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2026 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: HTTP server and request handlers for the login flow and the
// playlist API.
//

package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxFragmentBytes = 8 << 10

// statusRecorder remembers the status and body size of a response for the
// request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

// requestLogger logs method, path, status, response size and duration. Query
// strings are left out since they can carry the API access token.
func requestLogger(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Printf("%s %s %d %dB %s", r.Method, r.URL.Path, rec.status, rec.bytes, time.Since(start).Round(time.Millisecond))
	})
}

// Server serves the login redirect, the callback page and the JSON API.
type Server struct {
	config  Config
	session *Session
	library *Library
	store   *TokenStore
	scopes  []string
	logger  *log.Logger
}

// NewServer returns a server for session. store may be nil to disable
// persisting tokens.
func NewServer(cfg Config, session *Session, library *Library, store *TokenStore, scopes []string) *Server {
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	return &Server{
		config:  cfg,
		session: session,
		library: library,
		store:   store,
		scopes:  scopes,
		logger:  log.Default(),
	}
}

// SetLogger replaces the logger used for request logs.
func (s *Server) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// CallbackPath is the path of the configured redirect URI.
func (s *Server) CallbackPath() string {
	u, err := url.Parse(s.config.RedirectURI)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

// Handler returns the routes wrapped in request logging. The callback path
// comes from configuration, so it is matched literally by pageHandler rather
// than registered as a mux pattern.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", s.pageHandler)
	mux.HandleFunc("GET /login", s.HandleLoginRequest)
	mux.HandleFunc("POST /api/v1/session/token", s.HandleTokenRequest)
	mux.HandleFunc("GET /api/v1/session", s.HandleSessionRequest)
	mux.HandleFunc("DELETE /api/v1/session", s.requireAPIToken(s.HandleLogoutRequest))
	mux.HandleFunc("GET /api/v1/playlists", s.requireAPIToken(s.HandlePlaylistsRequest))
	mux.HandleFunc("GET /api/v1/playlists/{id}/tracks", s.requireAPIToken(s.HandleTracksRequest))

	return requestLogger(s.logger, mux)
}

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case s.CallbackPath():
		s.HandleCallbackPage(w, r)
	case "/":
		s.HandleRootRequest(w, r)
	default:
		http.NotFound(w, r)
	}
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Printf("Starting server on port %s...", s.config.Port)
	s.logger.Printf("Log in at http://127.0.0.1:%s/login", s.config.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requireAPIToken checks the API access token when one is configured.
func (s *Server) requireAPIToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.config.APIAccessToken == "" {
			next(w, r)
			return
		}

		token := r.URL.Query().Get("token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}

		if token != s.config.APIAccessToken {
			writeJSON(w, http.StatusUnauthorized, APIResponse{
				Success: false,
				Error:   "Invalid or missing access token",
			})
			return
		}
		next(w, r)
	}
}

// HandleRootRequest reports whether the session is authenticated.
func (s *Server) HandleRootRequest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, ok := s.session.AccessToken(); ok {
		fmt.Fprint(w, "Authenticated with Spotify.")
		return
	}
	fmt.Fprint(w, "Not authenticated. Visit /login to connect Spotify.")
}

// HandleLoginRequest redirects the browser to Spotify's authorization page.
// The optional state query parameter is the path to return to afterwards; it
// is sent to Spotify behind a nonce that is also stored in a cookie.
func (s *Server) HandleLoginRequest(w http.ResponseWriter, r *http.Request) {
	returnPath := DefaultState
	if r.URL.Query().Has("state") {
		returnPath = r.URL.Query().Get("state")
	}

	nonce, state := newLoginState(returnPath)
	setLoginCookie(w, r, nonce)

	http.Redirect(w, r, s.session.AuthorizationURL(s.scopes, WithState(state)), http.StatusTemporaryRedirect)
}

// HandleCallbackPage serves the page Spotify redirects back to. The token is
// in the URL fragment, which never reaches the server, so the page posts it
// back to the token endpoint.
func (s *Server) HandleCallbackPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	fmt.Fprint(w, callbackPage)
}

// HandleTokenRequest stores the token carried in the posted callback fragment.
func (s *Server) HandleTokenRequest(w http.ResponseWriter, r *http.Request) {
	if !sameOrigin(r) {
		writeJSON(w, http.StatusForbidden, APIResponse{Error: "cross-site token submission rejected"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFragmentBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, APIResponse{Error: "callback fragment too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, APIResponse{Error: "failed to read callback fragment"})
		return
	}

	result, err := ParseCallbackFragment(string(body))
	if err != nil {
		var authErr *AuthorizationError
		if errors.As(err, &authErr) {
			s.logger.Printf("Spotify authorization failed: %s", authErr.Code)
		}
		writeJSON(w, http.StatusBadRequest, APIResponse{Error: err.Error()})
		return
	}

	redirect, ok := verifyLoginState(r, result.State)
	if !ok {
		writeJSON(w, http.StatusForbidden, APIResponse{Error: "State mismatch"})
		return
	}
	clearLoginCookie(w)

	s.session.SetAccessToken(result.AccessToken)

	if s.store != nil {
		if err := s.store.Save(result.Token(time.Now())); err != nil {
			s.logger.Printf("Warning: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success:  true,
		Message:  "Authentication successful",
		Redirect: redirect,
	})
}

// HandleSessionRequest reports whether a token is present.
func (s *Server) HandleSessionRequest(w http.ResponseWriter, r *http.Request) {
	_, ok := s.session.AccessToken()
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Authenticated: &ok})
}

// HandleLogoutRequest discards the token in memory and on disk.
func (s *Server) HandleLogoutRequest(w http.ResponseWriter, r *http.Request) {
	s.session.ClearAccessToken()

	if s.store != nil {
		if err := s.store.Delete(); err != nil {
			s.logger.Printf("Warning: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Logged out"})
}

// HandlePlaylistsRequest lists the user's playlists.
func (s *Server) HandlePlaylistsRequest(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.library.Playlists(r.Context())
	if err != nil {
		s.writeLibraryError(w, err)
		return
	}

	if playlists == nil {
		playlists = []Playlist{}
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Playlists: playlists})
}

// HandleTracksRequest lists the tracks of one playlist.
func (s *Server) HandleTracksRequest(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.library.Tracks(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeLibraryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Tracks: tracks})
}

func (s *Server) writeLibraryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, APIResponse{
			Error:    "Spotify not authenticated. Visit /login to authenticate",
			Redirect: "/login",
		})
	case errors.Is(err, ErrInvalidToken):
		// The token is no good anymore, drop it so the next login starts clean.
		s.session.ClearAccessToken()
		writeJSON(w, http.StatusUnauthorized, APIResponse{
			Error:    "Spotify access token expired or revoked. Visit /login to re-authenticate",
			Redirect: "/login",
		})
	default:
		writeJSON(w, http.StatusBadGateway, APIResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Warning: Failed to encode response: %v", err)
	}
}

const callbackPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Connecting Spotify</title></head>
<body>
<p id="status">Finishing Spotify login...</p>
<script>
(function () {
  var status = document.getElementById("status");
  var fragment = window.location.hash.substring(1);
  history.replaceState(null, "", window.location.pathname);
  fetch("/api/v1/session/token", {
    method: "POST",
    headers: { "Content-Type": "application/x-www-form-urlencoded" },
    body: fragment
  })
    .then(function (res) { return res.json(); })
    .then(function (res) {
      if (res.success) {
        window.location.replace(res.redirect || "/");
        return;
      }
      status.textContent = "Spotify login failed: " + res.error;
    })
    .catch(function (err) {
      status.textContent = "Spotify login failed: " + err;
    });
})();
</script>
</body>
</html>
`
