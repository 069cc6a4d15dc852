package core

import (
	"slices"
)

// RequestType selects the kind of period a command asks for
type RequestType string

const (
	// RequestTypeWeek requests the images of a calendar week
	RequestTypeWeek RequestType = "week"
	// RequestTypeMonth requests the images of a month
	RequestTypeMonth RequestType = "month"
)

// Period identifies a gallery folder
type Period struct {
	Type   RequestType
	Number int
	Year   int
}

// Invocation is the immutable context of a single slash command run
type Invocation struct {
	UserID      string
	ChannelID   string
	ResponseURL string
	Command     string
	Text        string
	Period      Period
}

// SlashCommand represents the raw inbound command payload
type SlashCommand struct {
	UserID      string `json:"user_id"`
	ChannelID   string `json:"channel_id"`
	ResponseURL string `json:"response_url"`
	Command     string `json:"command"`
	Text        string `json:"text"`
}

// ImageMetadata represents the metadata the gallery returns for an image
type ImageMetadata struct {
	URL     string
	Caption string
}

// ContentPost is a single image post for the content channel
type ContentPost struct {
	ImageURL string
	Filename string
	Author   string
	Title    string
}

// Comment returns the text shown next to the image
func (p ContentPost) Comment() string {
	return "*" + p.Author + "* " + p.Title
}

// CacheRecord holds the images already posted for a period
type CacheRecord struct {
	PeriodKey string
	PostedIDs []string
}

// NewCacheRecord creates an empty record for a period key
func NewCacheRecord(periodKey string) *CacheRecord {
	return &CacheRecord{
		PeriodKey: periodKey,
		PostedIDs: []string{},
	}
}

// Contains reports whether id has already been posted
func (r *CacheRecord) Contains(id string) bool {
	return slices.Contains(r.PostedIDs, id)
}

// Append adds id to the record unless it is already present
func (r *CacheRecord) Append(id string) {
	if r.Contains(id) {
		return
	}
	r.PostedIDs = append(r.PostedIDs, id)
}

// IsFullyCached reports whether the posted ids and ids form exactly the same set
func (r *CacheRecord) IsFullyCached(ids []string) bool {
	posted := make(map[string]struct{}, len(r.PostedIDs))
	for _, id := range r.PostedIDs {
		posted[id] = struct{}{}
	}

	listed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := posted[id]; !ok {
			return false
		}
		listed[id] = struct{}{}
	}

	return len(listed) == len(posted)
}

// RunResult summarises a completed run
type RunResult struct {
	Total      int
	Posted     int
	Skipped    int
	Supplement bool
	AllCached  bool
}
