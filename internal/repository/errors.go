package repository

import "errors"

var (
	// ErrInvalidFrameURL indicates an invalid frame URL
	ErrInvalidFrameURL = errors.New("invalid frame URL")

	// ErrRecordNotFound indicates the score record was not found
	ErrRecordNotFound = errors.New("score record not found")

	// ErrRepositoryUnavailable indicates the repository is unavailable
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)
