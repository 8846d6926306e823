package cache

import (
	"strings"
	"time"
)

// ResolveTTL returns the default TTL for a key based on the operation name
// embedded in it. Static reference data (schedules, teams) lives far longer
// than live or near-live data; unrecognized operations fall back to the
// configured default.
func (c *Cache) ResolveTTL(key string) time.Duration {
	op := strings.ToLower(c.operationFromKey(key))

	switch {
	case strings.Contains(op, "live"):
		return c.config.TTL.Live
	case strings.Contains(op, "boxscore") || strings.Contains(op, "gamesummary"):
		return c.config.TTL.BoxScore
	case strings.Contains(op, "player") || strings.Contains(op, "athlete") ||
		strings.Contains(op, "stat"):
		return c.config.TTL.PlayerStats
	case strings.Contains(op, "schedule") || strings.Contains(op, "season") ||
		strings.Contains(op, "calendar"):
		return c.config.TTL.Season
	case strings.Contains(op, "week"):
		return c.config.TTL.PlayerStats
	case strings.Contains(op, "team") || strings.Contains(op, "roster"):
		return c.config.TTL.Team
	default:
		return c.config.TTL.Default
	}
}
