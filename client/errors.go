package client

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrAPIKeyRequired    = errors.New("api key is required")
	ErrAPISecretRequired = errors.New("api secret is required")
	ErrConfigRequired    = errors.New("config is required")
	ErrInvalidEndpoint   = errors.New("invalid endpoint")
)

// Errors for input validation.
var (
	ErrInvalidWorkspaceID = errors.New("workspace id must be greater than 0")
	ErrEmptyPath          = errors.New("path is required")
)
