package core

import (
	"strings"
)

// captionSeparator separates the author from the title segments of a caption
const captionSeparator = " / "

// ParseCaption splits a caption of the form "<author> / <title...>".
// The remaining segments are joined with "/" to form the title. An empty
// caption yields the no-author text as both author and message.
func ParseCaption(caption string) (author, title, message string) {
	if caption == "" {
		return MsgNoAuthor, "", MsgNoAuthor
	}

	parts := strings.Split(caption, captionSeparator)
	author = parts[0]
	if len(parts) > 1 {
		title = strings.Join(parts[1:], "/")
	}
	return author, title, caption
}
