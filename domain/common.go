package domain

import (
	"errors"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID         = errors.New("failed to parse UUID")
	ErrTokenNotFound     = errors.New("failed to token not found")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrTokenExpired      = errors.New("token expired")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrAuthNotConfigured = errors.New("authentication not configured")
)
