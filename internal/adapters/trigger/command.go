package trigger

import (
	"net/url"
	"strings"

	"github.com/mikey/slack-image-bot/internal/core"
	"github.com/slack-go/slack"
)

// maxBodyBytes bounds slash command payloads, Slack sends a few hundred bytes
const maxBodyBytes = 64 << 10

func commandFromSlash(s slack.SlashCommand) core.SlashCommand {
	return core.SlashCommand{
		UserID:      s.UserID,
		ChannelID:   s.ChannelID,
		ResponseURL: s.ResponseURL,
		Command:     s.Command,
		Text:        strings.TrimSpace(s.Text),
	}
}

func commandFromForm(values url.Values) core.SlashCommand {
	return core.SlashCommand{
		UserID:      values.Get("user_id"),
		ChannelID:   values.Get("channel_id"),
		ResponseURL: values.Get("response_url"),
		Command:     values.Get("command"),
		Text:        strings.TrimSpace(values.Get("text")),
	}
}
