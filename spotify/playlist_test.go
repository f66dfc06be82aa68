//
// Date: 2026-10-15
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2026 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Unit tests for playlist and track lookups.
//

package spotify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	spotifyLib "github.com/zmb3/spotify/v2"
)

// MockSpotifyClient is a mock implementation of the Client interface for testing.
type MockSpotifyClient struct {
	// CurrentUsersPlaylists mock
	CurrentUsersPlaylistsFunc func(ctx context.Context, opts ...spotifyLib.RequestOption) (*spotifyLib.SimplePlaylistPage, error)

	// GetPlaylistItems mock
	GetPlaylistItemsFunc func(ctx context.Context, playlistID spotifyLib.ID, opts ...spotifyLib.RequestOption) (*spotifyLib.PlaylistItemPage, error)
}

// CurrentUsersPlaylists returns the user's playlists.
func (m *MockSpotifyClient) CurrentUsersPlaylists(ctx context.Context, opts ...spotifyLib.RequestOption) (*spotifyLib.SimplePlaylistPage, error) {
	if m.CurrentUsersPlaylistsFunc != nil {
		return m.CurrentUsersPlaylistsFunc(ctx, opts...)
	}
	return &spotifyLib.SimplePlaylistPage{
		Playlists: []spotifyLib.SimplePlaylist{
			{
				ID:     "playlist123",
				Name:   "Test Playlist",
				Images: []spotifyLib.Image{{URL: "https://i.scdn.co/image/cover1"}},
			},
			{
				ID:   "playlist456",
				Name: "Another Playlist",
			},
		},
	}, nil
}

// GetPlaylistItems returns the items of a playlist.
func (m *MockSpotifyClient) GetPlaylistItems(ctx context.Context, playlistID spotifyLib.ID, opts ...spotifyLib.RequestOption) (*spotifyLib.PlaylistItemPage, error) {
	if m.GetPlaylistItemsFunc != nil {
		return m.GetPlaylistItemsFunc(ctx, playlistID, opts...)
	}
	return &spotifyLib.PlaylistItemPage{
		Items: []spotifyLib.PlaylistItem{
			trackItem("track1", "First Track"),
			trackItem("track2", "Second Track"),
		},
	}, nil
}

func trackItem(id, name string) spotifyLib.PlaylistItem {
	track := &spotifyLib.FullTrack{}
	track.ID = spotifyLib.ID(id)
	track.Name = name
	track.URI = spotifyLib.URI("spotify:track:" + id)
	return spotifyLib.PlaylistItem{Track: spotifyLib.PlaylistItemTrack{Track: track}}
}

// newTestLibrary returns a library whose session holds token and whose
// clients are mock. The token seen by the factory is recorded in seen.
func newTestLibrary(t *testing.T, token string, mock *MockSpotifyClient, seen *string) (*Library, *Session) {
	t.Helper()
	session := newTestSession(t)
	if token != "" {
		session.SetAccessToken(token)
	}
	return NewLibraryWithClient(session, func(ctx context.Context, accessToken string) Client {
		if seen != nil {
			*seen = accessToken
		}
		return mock
	}), session
}

func TestPlaylists_Success(t *testing.T) {
	var seen string
	library, _ := newTestLibrary(t, "BQDtoken", &MockSpotifyClient{}, &seen)

	playlists, err := library.Playlists(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if seen != "BQDtoken" {
		t.Errorf("expected client built with session token, got %q", seen)
	}
	if len(playlists) != 2 {
		t.Fatalf("expected 2 playlists, got %d", len(playlists))
	}
	if playlists[0].ID != "playlist123" || playlists[0].Name != "Test Playlist" {
		t.Errorf("unexpected playlist %+v", playlists[0])
	}
	if len(playlists[0].Images) != 1 || playlists[0].Images[0].URL != "https://i.scdn.co/image/cover1" {
		t.Errorf("unexpected images %+v", playlists[0].Images)
	}
	if playlists[1].Images == nil || len(playlists[1].Images) != 0 {
		t.Errorf("expected empty image list, got %+v", playlists[1].Images)
	}
}

func TestPlaylists_Pagination(t *testing.T) {
	calls := 0
	mock := &MockSpotifyClient{
		CurrentUsersPlaylistsFunc: func(ctx context.Context, opts ...spotifyLib.RequestOption) (*spotifyLib.SimplePlaylistPage, error) {
			calls++
			size := pageLimit
			if calls == 2 {
				size = 3
			}
			page := &spotifyLib.SimplePlaylistPage{}
			for i := 0; i < size; i++ {
				page.Playlists = append(page.Playlists, spotifyLib.SimplePlaylist{
					ID:   spotifyLib.ID(fmt.Sprintf("p%d-%d", calls, i)),
					Name: "Playlist",
				})
			}
			return page, nil
		},
	}
	library, _ := newTestLibrary(t, "token", mock, nil)

	playlists, err := library.Playlists(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 page requests, got %d", calls)
	}
	if len(playlists) != pageLimit+3 {
		t.Errorf("expected %d playlists, got %d", pageLimit+3, len(playlists))
	}
}

func TestPlaylists_NotAuthenticated(t *testing.T) {
	library, _ := newTestLibrary(t, "", &MockSpotifyClient{}, nil)

	_, err := library.Playlists(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestPlaylists_InvalidToken(t *testing.T) {
	mock := &MockSpotifyClient{
		CurrentUsersPlaylistsFunc: func(ctx context.Context, opts ...spotifyLib.RequestOption) (*spotifyLib.SimplePlaylistPage, error) {
			return nil, spotifyLib.Error{Message: "The access token expired", Status: 401}
		},
	}
	library, session := newTestLibrary(t, "expired", mock, nil)

	_, err := library.Playlists(context.Background())
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	// The library leaves the session alone.
	if token, _ := session.AccessToken(); token != "expired" {
		t.Errorf("expected session token to be kept, got %q", token)
	}
}

func TestPlaylists_APIError(t *testing.T) {
	mock := &MockSpotifyClient{
		CurrentUsersPlaylistsFunc: func(ctx context.Context, opts ...spotifyLib.RequestOption) (*spotifyLib.SimplePlaylistPage, error) {
			return nil, spotifyLib.Error{Message: "Service unavailable", Status: 503}
		},
	}
	library, _ := newTestLibrary(t, "token", mock, nil)

	_, err := library.Playlists(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrInvalidToken) {
		t.Error("503 should not be reported as an invalid token")
	}
}

func TestTracks_Success(t *testing.T) {
	var requested spotifyLib.ID
	mock := &MockSpotifyClient{
		GetPlaylistItemsFunc: func(ctx context.Context, playlistID spotifyLib.ID, opts ...spotifyLib.RequestOption) (*spotifyLib.PlaylistItemPage, error) {
			requested = playlistID
			local := trackItem("local1", "Local File")
			local.IsLocal = true
			return &spotifyLib.PlaylistItemPage{
				Items: []spotifyLib.PlaylistItem{
					trackItem("track1", "First Track"),
					local,
					{Track: spotifyLib.PlaylistItemTrack{Episode: &spotifyLib.EpisodePage{}}},
					trackItem("track2", "Second Track"),
				},
			}, nil
		},
	}
	library, _ := newTestLibrary(t, "token", mock, nil)

	tracks, err := library.Tracks(context.Background(), "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requested != "37i9dQZF1DXcBWIGoYBM5M" {
		t.Errorf("expected playlist ID from URL, got %s", requested)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	want := Track{ID: "track1", Name: "First Track", URI: "spotify:track:track1"}
	if tracks[0] != want {
		t.Errorf("tracks[0] = %+v, want %+v", tracks[0], want)
	}
}

func TestTracks_EmptyPlaylistID(t *testing.T) {
	library, _ := newTestLibrary(t, "token", &MockSpotifyClient{}, nil)

	if _, err := library.Tracks(context.Background(), "  "); err == nil {
		t.Error("expected error for empty playlist ID")
	}
}

func TestTracks_InvalidToken(t *testing.T) {
	mock := &MockSpotifyClient{
		GetPlaylistItemsFunc: func(ctx context.Context, playlistID spotifyLib.ID, opts ...spotifyLib.RequestOption) (*spotifyLib.PlaylistItemPage, error) {
			return nil, spotifyLib.Error{Message: "Invalid access token", Status: 401}
		},
	}
	library, _ := newTestLibrary(t, "token", mock, nil)

	if _, err := library.Tracks(context.Background(), "abc"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

// TestExtractPlaylistID tests the extractPlaylistID function.
func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "full URL with query params",
			input:    "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "full URL without query params",
			input:    "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "playlist URI",
			input:    "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "just playlist ID",
			input:    "37i9dQZF1DXcBWIGoYBM5M",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractPlaylistID(tt.input)
			if result != tt.expected {
				t.Errorf("extractPlaylistID(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
