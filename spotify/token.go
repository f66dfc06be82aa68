//
// Date: 2026-10-15
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2026 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Persisting the access token between runs.
//

package spotify

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
)

// TokenStore saves the OAuth token to a file so the CLI can reuse a token
// obtained through the server.
type TokenStore struct {
	path string
}

// NewTokenStore returns a store backed by the file at path.
func NewTokenStore(path string) *TokenStore {
	if path == "" {
		path = DefaultTokenFile
	}
	return &TokenStore{path: path}
}

// Path returns the token file path.
func (s *TokenStore) Path() string {
	return s.path
}

// Save writes the token with owner-only permissions.
func (s *TokenStore) Save(token *oauth2.Token) error {
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return nil
}

// Load reads a previously saved token. It returns nil and no error when no
// token has been saved yet.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer file.Close()

	var token oauth2.Token
	if err := json.NewDecoder(file).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	return &token, nil
}

// Delete removes the token file. A missing file is not an error.
func (s *TokenStore) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// Restore loads the saved token into the session if it is still valid. It
// reports whether a token was restored.
func (s *TokenStore) Restore(session *Session) (bool, error) {
	token, err := s.Load()
	if err != nil {
		return false, err
	}
	if token == nil || !token.Valid() {
		return false, nil
	}

	session.SetAccessToken(token.AccessToken)
	return true, nil
}
