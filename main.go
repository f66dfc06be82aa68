//
// Date: 2026-10-15
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2026 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Spotify login helper. It builds the implicit grant login URL,
// runs a small server that captures the returned access token, and lists
// playlists and tracks with that token.
//

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cloudmanic/spotify-session/spotify"
)

// options holds the parsed command line flags.
type options struct {
	serve         bool
	printURL      bool
	listPlaylists bool
	logout        bool
	scopes        string
	state         string
	tracks        string
}

// parseFlags parses the command line. Printing the login URL is the default
// action when no other mode is selected.
func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("spotify-session", flag.ContinueOnError)
	fs.BoolVar(&opts.serve, "serve", false, "Run the login server")
	fs.BoolVar(&opts.printURL, "url", false, "Print the Spotify login URL and exit (default action)")
	fs.StringVar(&opts.scopes, "scopes", "", "Comma separated Spotify scopes to request")
	fs.StringVar(&opts.state, "state", spotify.DefaultState, "State value returned with the redirect")
	fs.BoolVar(&opts.listPlaylists, "playlists", false, "List your Spotify playlists and exit")
	fs.StringVar(&opts.tracks, "tracks", "", "Playlist ID or URL whose tracks to list")
	fs.BoolVar(&opts.logout, "logout", false, "Delete the saved access token and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if !opts.serve && !opts.listPlaylists && !opts.logout && opts.tracks == "" {
		opts.printURL = true
	}
	return opts, nil
}

// main is the entry point for the application.
func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, err := spotify.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	session, err := spotify.NewSession(cfg)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	store := spotify.NewTokenStore(cfg.TokenFile)
	if opts.logout {
		if err := store.Delete(); err != nil {
			log.Fatalf("Failed to log out: %v", err)
		}
		log.Printf("Removed saved token %s", store.Path())
		return
	}

	restored, err := store.Restore(session)
	if err != nil {
		log.Printf("Warning: %v", err)
	}

	library := spotify.NewLibrary(session)
	scopes := parseScopes(opts.scopes)

	switch {
	case opts.serve:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := spotify.NewServer(cfg, session, library, store, scopes)
		if err := server.ListenAndServe(ctx); err != nil {
			log.Fatalf("Server error: %v", err)
		}

	case opts.listPlaylists, opts.tracks != "":
		if !restored {
			spotify.PrintAuthorizationURL(os.Stdout, session.AuthorizationURL(scopes, spotify.WithState(opts.state)))
			log.Fatal("No valid saved token. Log in with -serve first")
		}

		ctx := context.Background()
		if opts.listPlaylists {
			playlists, err := library.Playlists(ctx)
			exitOnLibraryError(err)
			spotify.PrintPlaylistsTable(os.Stdout, playlists)
			return
		}

		tracks, err := library.Tracks(ctx, opts.tracks)
		exitOnLibraryError(err)
		spotify.PrintTracksTable(os.Stdout, tracks)

	case opts.printURL:
		spotify.PrintAuthorizationURL(os.Stdout, session.AuthorizationURL(scopes, spotify.WithState(opts.state)))
	}
}

// parseScopes splits a comma separated scope list. An empty list selects
// the default playlist scopes.
func parseScopes(raw string) []string {
	var scopes []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}

	if len(scopes) == 0 {
		return spotify.DefaultScopes
	}
	return scopes
}

func exitOnLibraryError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, spotify.ErrInvalidToken) {
		log.Fatal("Saved token was rejected by Spotify. Log in again with -serve")
	}
	log.Fatalf("Spotify request failed: %v", err)
}
