package ports

import (
	"github.com/mikey/slack-image-bot/internal/core"
)

// CacheStore is a cache repository holding resources that must be released
type CacheStore interface {
	core.CacheRepository

	// Stop releases connections held by the store
	Stop()
}
