package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the invoking user is not on the allow-list
	ErrUnauthorized = errors.New("user not authorized")
	// ErrUnknownCommand is returned for commands other than the week and month commands
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidParameter is returned when a command parameter is not a valid number
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrListNotFound is returned when the gallery has no folder for the period
	ErrListNotFound = errors.New("image list not found")
	// ErrList is returned for any other failure to list images
	ErrList = errors.New("failed to list images")
	// ErrMetadataDecode is returned when image metadata cannot be decoded
	ErrMetadataDecode = errors.New("failed to decode image metadata")
	// ErrImageDownload is returned when an image cannot be downloaded
	ErrImageDownload = errors.New("failed to download image")
	// ErrMessagingDelivery is returned when the messaging platform rejects a message
	ErrMessagingDelivery = errors.New("failed to deliver message")
	// ErrCacheMiss is returned by cache repositories when no record exists for a key
	ErrCacheMiss = errors.New("cache record not found")
)

// StatusError carries the HTTP status of a failed gallery request
type StatusError struct {
	Kind       error
	StatusCode int
	URL        string
	Body       string
}

// Error returns the error message
func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %s returned status %d", e.Kind, e.URL, e.StatusCode)
}

// Unwrap returns the error kind
func (e *StatusError) Unwrap() error {
	return e.Kind
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// MetadataError is returned when the metadata response for a file cannot be used
type MetadataError struct {
	Filename string
	Body     string
	Err      error
}

// Error returns the error message
func (e *MetadataError) Error() string {
	return fmt.Sprintf("%v for %s: %v", ErrMetadataDecode, e.Filename, e.Err)
}

// Unwrap returns both the decode sentinel and the underlying cause
func (e *MetadataError) Unwrap() []error {
	return []error{ErrMetadataDecode, e.Err}
}
