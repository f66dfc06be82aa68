//
// Date: 2026-10-15
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2026 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Environment configuration for the Spotify session service.
//

package spotify

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
)

const (
	// AuthorizeURL is the Spotify accounts endpoint the browser is sent to.
	AuthorizeURL = "https://accounts.spotify.com/authorize"

	DefaultPort      = "8080"
	DefaultTokenFile = ".spotify_token.json"
	DefaultState     = "/"
)

// DefaultScopes are requested when the caller does not name any scopes.
var DefaultScopes = []string{
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

// Config holds the values read from the environment at startup.
type Config struct {
	ClientID       string
	RedirectURI    string
	Port           string
	APIAccessToken string
	TokenFile      string
}

// ConfigError reports required environment variables that are missing or
// hold values the service cannot use.
type ConfigError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required configuration: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid configuration: "+strings.Join(e.Invalid, "; "))
	}
	return strings.Join(parts, "; ")
}

// LoadConfig loads a .env file if one exists and reads the configuration from
// the environment. It fails when SPOTIFY_CLIENT_ID or SPOTIFY_REDIRECT_URI is unset.
func LoadConfig() (Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := Config{
		ClientID:       os.Getenv("SPOTIFY_CLIENT_ID"),
		RedirectURI:    os.Getenv("SPOTIFY_REDIRECT_URI"),
		Port:           os.Getenv("PORT"),
		APIAccessToken: os.Getenv("API_ACCESS_TOKEN"),
		TokenFile:      os.Getenv("SPOTIFY_TOKEN_FILE"),
	}

	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = DefaultTokenFile
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the values needed to build an authorization URL are
// present and that the redirect URI path does not shadow a server route.
func (c Config) Validate() error {
	var missing, invalid []string
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "SPOTIFY_CLIENT_ID")
	}
	if strings.TrimSpace(c.RedirectURI) == "" {
		missing = append(missing, "SPOTIFY_REDIRECT_URI")
	} else if err := validateRedirectURI(c.RedirectURI); err != nil {
		invalid = append(invalid, "SPOTIFY_REDIRECT_URI "+err.Error())
	}

	if len(missing) > 0 || len(invalid) > 0 {
		return &ConfigError{Missing: missing, Invalid: invalid}
	}
	return nil
}

// reservedPaths are served by the server itself and cannot double as the
// OAuth callback.
var reservedPaths = []string{"/login", "/api"}

func validateRedirectURI(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is not a valid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL, got %q", raw)
	}

	for _, p := range reservedPaths {
		if u.Path == p || strings.HasPrefix(u.Path, p+"/") {
			return fmt.Errorf("path %q collides with the server route %s", u.Path, p)
		}
	}
	return nil
}
