//
// Date: 2026-10-15
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2026 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Playlist and track lookups using the session's access token.
//

package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	spotifyLib "github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

const pageLimit = 50

// ClientFactory builds a Spotify API client that authenticates with accessToken.
type ClientFactory func(ctx context.Context, accessToken string) Client

// Library reads the user's playlists and tracks with the token held by a session.
type Library struct {
	session   *Session
	newClient ClientFactory
}

// NewLibrary returns a library backed by the Spotify Web API.
func NewLibrary(session *Session) *Library {
	return NewLibraryWithClient(session, newAPIClient)
}

// NewLibraryWithClient returns a library that builds its clients with factory.
func NewLibraryWithClient(session *Session, factory ClientFactory) *Library {
	return &Library{session: session, newClient: factory}
}

// newAPIClient forwards the token verbatim as a bearer credential.
func newAPIClient(ctx context.Context, accessToken string) Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
	return spotifyLib.New(oauth2.NewClient(ctx, src))
}

func (l *Library) client(ctx context.Context) (Client, error) {
	token, ok := l.session.AccessToken()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return l.newClient(ctx, token), nil
}

// Playlists returns every playlist of the current user.
func (l *Library) Playlists(ctx context.Context) ([]Playlist, error) {
	client, err := l.client(ctx)
	if err != nil {
		return nil, err
	}

	var all []Playlist
	offset := 0

	for {
		page, err := client.CurrentUsersPlaylists(ctx, spotifyLib.Limit(pageLimit), spotifyLib.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("failed to get playlists: %w", classifyError(err))
		}

		for _, p := range page.Playlists {
			all = append(all, toPlaylist(p))
		}

		// Check if there are more playlists to fetch
		if len(page.Playlists) < pageLimit {
			break
		}
		offset += pageLimit
	}

	return all, nil
}

// Tracks returns the tracks of a playlist given by ID or open.spotify.com URL.
// Podcast episodes and local files are skipped.
func (l *Library) Tracks(ctx context.Context, playlist string) ([]Track, error) {
	playlistID := extractPlaylistID(strings.TrimSpace(playlist))
	if playlistID == "" {
		return nil, errors.New("playlist ID is required")
	}

	client, err := l.client(ctx)
	if err != nil {
		return nil, err
	}

	var all []Track
	offset := 0

	for {
		page, err := client.GetPlaylistItems(ctx, spotifyLib.ID(playlistID), spotifyLib.Limit(pageLimit), spotifyLib.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("failed to get playlist items: %w", classifyError(err))
		}

		for _, item := range page.Items {
			if item.IsLocal || item.Track.Track == nil {
				continue
			}
			t := item.Track.Track
			all = append(all, Track{
				ID:   string(t.ID),
				Name: t.Name,
				URI:  string(t.URI),
			})
		}

		if len(page.Items) < pageLimit {
			break
		}
		offset += pageLimit
	}

	return all, nil
}

func toPlaylist(p spotifyLib.SimplePlaylist) Playlist {
	images := make([]Image, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, Image{URL: img.URL})
	}
	return Playlist{
		ID:     string(p.ID),
		Name:   p.Name,
		Images: images,
	}
}

// classifyError maps a 401 from the Web API to ErrInvalidToken.
func classifyError(err error) error {
	status := 0

	var apiErr spotifyLib.Error
	var apiErrPtr *spotifyLib.Error
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Status
	case errors.As(err, &apiErrPtr):
		status = apiErrPtr.Status
	}

	if status == http.StatusUnauthorized {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return err
}

// extractPlaylistID extracts the playlist ID from a Spotify URL or returns
// the input as-is if it's already just an ID.
func extractPlaylistID(input string) string {
	// If it's a full URL like https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=xxx
	if strings.Contains(input, "spotify.com/playlist/") {
		parts := strings.Split(input, "/playlist/")
		if len(parts) > 1 {
			return strings.Split(parts[1], "?")[0]
		}
	}
	return strings.TrimPrefix(input, "spotify:playlist:")
}
