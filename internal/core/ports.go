package core

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

// GalleryClient defines the interface for the remote image gallery
type GalleryClient interface {
	// ListImages returns the filenames stored for a period
	ListImages(ctx context.Context, period Period) ([]string, error)

	// GetMetadata returns the metadata of a single image
	GetMetadata(ctx context.Context, period Period, filename string) (*ImageMetadata, error)
}

// ImageFetcher downloads image bytes
type ImageFetcher interface {
	// FetchImage downloads the image at url
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// CacheRepository defines the interface for storing posted image ids
type CacheRepository interface {
	// Get retrieves the record for a period key, or ErrCacheMiss
	Get(ctx context.Context, periodKey string) (*CacheRecord, error)

	// Put stores a record, overwriting any existing one
	Put(ctx context.Context, record *CacheRecord) error
}

// Notifier defines the interface for the messaging platform
type Notifier interface {
	// SendHeader posts the header message to the content channel
	SendHeader(ctx context.Context, text string)

	// SendContent posts an image with its author and title to the content channel
	SendContent(ctx context.Context, inv Invocation, post ContentPost) error

	// SendAdmin posts a message to the admin channel
	SendAdmin(ctx context.Context, text string)

	// SendPrivate posts a message only the invoking user can see
	SendPrivate(ctx context.Context, inv Invocation, text string)
}

// Authorizer decides whether a user may run commands
type Authorizer interface {
	// IsAuthorized reports whether userID is on the allow-list
	IsAuthorized(userID string) bool
}
