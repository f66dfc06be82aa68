//
// Date: 2026-10-15
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2026 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Terminal output for playlists, tracks and the login URL.
//

package spotify

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// PrintPlaylistsTable displays the user's Spotify playlists in a formatted table.
func PrintPlaylistsTable(w io.Writer, playlists []Playlist) {
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(w)
	cyan.Fprintln(w, "🎵 Your Spotify Playlists")
	fmt.Fprintln(w)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Name", "Images", "Playlist ID"})

	for i, playlist := range playlists {
		t.AppendRow(table.Row{
			i + 1,
			color.New(color.Bold).Sprint(playlist.Name),
			len(playlist.Images),
			color.HiBlackString(playlist.ID),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()

	fmt.Fprintln(w)
	green.Fprintf(w, "Total playlists: %d\n", len(playlists))
}

// PrintTracksTable displays the tracks of a playlist.
func PrintTracksTable(w io.Writer, tracks []Track) {
	green := color.New(color.FgGreen, color.Bold)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Name", "URI"})

	for i, track := range tracks {
		t.AppendRow(table.Row{
			i + 1,
			color.New(color.Bold).Sprint(track.Name),
			color.HiBlackString(track.URI),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()

	fmt.Fprintln(w)
	green.Fprintf(w, "Total tracks: %d\n", len(tracks))
}

// PrintAuthorizationURL prints the URL the user has to open in a browser.
func PrintAuthorizationURL(w io.Writer, authURL string) {
	cyan := color.New(color.FgCyan)
	cyan.Fprintln(w, "Please visit this URL to authenticate:")
	fmt.Fprintln(w, authURL)
}
