package whitelist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker provides functionality to check if users may run commands
type Checker struct {
	users  map[string]struct{}
	logger *zap.Logger
}

// NewChecker creates a new allow-list checker
func NewChecker(users []string, logger *zap.Logger) *Checker {
	normalized := make(map[string]struct{}, len(users))
	for _, user := range users {
		if user = strings.TrimSpace(user); user != "" {
			normalized[user] = struct{}{}
		}
	}

	if logger != nil {
		if len(normalized) == 0 {
			logger.Warn("No authorized users configured, every command will be rejected")
		} else {
			logger.Info("Initialized allow-list checker", zap.Int("users", len(normalized)))
		}
	}

	return &Checker{
		users:  normalized,
		logger: logger,
	}
}

// IsAuthorized checks if the user id is on the allow-list.
// Slack user ids are case sensitive and compared verbatim.
func (c *Checker) IsAuthorized(userID string) bool {
	_, ok := c.users[userID]
	if !ok && c.logger != nil {
		c.logger.Debug("User is not authorized", zap.String("user", userID))
	}
	return ok
}
