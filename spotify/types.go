//
// Date: 2026-10-15
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2026 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Type definitions and interfaces for the Spotify session service.
//

package spotify

import (
	"context"

	spotifyLib "github.com/zmb3/spotify/v2"
)

// Client defines the Spotify API operations the library needs.
// This allows for mocking in tests.
type Client interface {
	CurrentUsersPlaylists(ctx context.Context, opts ...spotifyLib.RequestOption) (*spotifyLib.SimplePlaylistPage, error)
	GetPlaylistItems(ctx context.Context, playlistID spotifyLib.ID, opts ...spotifyLib.RequestOption) (*spotifyLib.PlaylistItemPage, error)
}

// Image is a playlist cover image.
type Image struct {
	URL string `json:"url"`
}

// Playlist is a playlist owned or followed by the user.
type Playlist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// Track is a track contained in a playlist.
type Track struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// APIResponse represents a standard JSON response for the API.
type APIResponse struct {
	Success       bool       `json:"success"`
	Message       string     `json:"message,omitempty"`
	Error         string     `json:"error,omitempty"`
	Redirect      string     `json:"redirect,omitempty"`
	Authenticated *bool      `json:"authenticated,omitempty"`
	Playlists     []Playlist `json:"playlists,omitempty"`
	Tracks        []Track    `json:"tracks,omitempty"`
}
