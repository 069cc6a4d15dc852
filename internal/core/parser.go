package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// CommandMonth requests the images of a month
	CommandMonth = "/get-month"
	// CommandWeek requests the images of a calendar week
	CommandWeek = "/get-week"
)

// ParseInvocation builds the invocation context for a slash command.
// The period defaults to the current week or month of now; the first text
// token overrides the number and the second the year.
func ParseInvocation(cmd SlashCommand, now time.Time) (Invocation, error) {
	inv := Invocation{
		UserID:      cmd.UserID,
		ChannelID:   cmd.ChannelID,
		ResponseURL: cmd.ResponseURL,
		Command:     cmd.Command,
		Text:        cmd.Text,
	}

	switch cmd.Command {
	case CommandMonth:
		inv.Period = defaultPeriod(RequestTypeMonth, now)
	case CommandWeek:
		inv.Period = defaultPeriod(RequestTypeWeek, now)
	default:
		return inv, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Command)
	}

	params := strings.Fields(cmd.Text)
	if len(params) > 0 {
		number, err := strconv.Atoi(params[0])
		if err != nil {
			return inv, fmt.Errorf("%w: number %q: %v", ErrInvalidParameter, params[0], err)
		}
		inv.Period.Number = number
	}
	if len(params) > 1 {
		year, err := strconv.Atoi(params[1])
		if err != nil {
			return inv, fmt.Errorf("%w: year %q: %v", ErrInvalidParameter, params[1], err)
		}
		inv.Period.Year = year
	}

	if !inv.Period.Valid() {
		return inv, fmt.Errorf("%w: %s %d out of range", ErrInvalidParameter, inv.Period.Type, inv.Period.Number)
	}

	return inv, nil
}
