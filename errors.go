package s3proxy

import "errors"

var (
	// ErrRejected is returned when a request path cannot be turned into an object key
	ErrRejected = errors.New("path rejected")
	// ErrNotFound is returned when the store reports that a key does not exist
	ErrNotFound = errors.New("not found")
	// ErrConnection is returned when the store cannot be reached or the transfer fails
	ErrConnection = errors.New("connection error")
	// ErrStore is returned for any other failure reported by the store
	ErrStore = errors.New("store error")
	// ErrNotText is returned when a document that must be text is not valid UTF-8
	ErrNotText = errors.New("not valid text")
	// ErrInvalidInput is returned when construction parameters are invalid
	ErrInvalidInput = errors.New("invalid input")
)
