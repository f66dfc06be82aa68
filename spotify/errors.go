//
// Date: 2026-10-15
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2026 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Errors returned by the session, callback and library code.
//

package spotify

import "errors"

var (
	// ErrNotAuthenticated means the session holds no access token.
	ErrNotAuthenticated = errors.New("spotify not authenticated")

	// ErrInvalidToken means Spotify answered 401 for the stored token.
	ErrInvalidToken = errors.New("spotify rejected the access token")

	ErrMissingAccessToken = errors.New("callback fragment has no access_token")
)
