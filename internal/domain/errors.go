package domain

import "errors"

var (
	// ErrNotFound is returned when a search or lookup yields no documents
	ErrNotFound = errors.New("not found")

	// ErrBadQuery is returned when the search engine rejects a query or cannot be reached
	ErrBadQuery = errors.New("bad request")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidContentType is returned when an upload declares the wrong document type
	ErrInvalidContentType = errors.New("invalid document type")

	// ErrMissingColumns is returned when a spreadsheet lacks a required header
	ErrMissingColumns = errors.New("required columns missing")

	// ErrDuplicateTool is returned when a tool with the same title and manufacturer exists
	ErrDuplicateTool = errors.New("tool with this title and manufacturer already exists")

	// ErrUserExists is returned on signup with an email that is already registered
	ErrUserExists = errors.New("user exists")

	// ErrInvalidCredentials is returned when login email or password is wrong
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrInactiveUser is returned for disabled or not yet activated accounts
	ErrInactiveUser = errors.New("user not active or disabled")

	// ErrUnauthorized is returned when a token is missing, malformed or revoked
	ErrUnauthorized = errors.New("token not valid")

	// ErrTokenExpired is returned when a token is past its expiry
	ErrTokenExpired = errors.New("token expired")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
