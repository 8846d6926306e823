package espn

import (
	"context"
	"fmt"

	"github.com/kbukum/sportkit/cache"
	"github.com/kbukum/sportkit/fetch"
	"github.com/kbukum/sportkit/logger"
)

// DefaultBaseURL points at the NFL slice of the public site API.
const DefaultBaseURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"

// Operation names embedded in cache keys. The cache maps them to TTL
// categories, so live data expires in seconds while team metadata lives
// for hours.
const (
	opTeams          = "GetTeams"
	opScoreboard     = "GetScoreboard"
	opLiveScoreboard = "GetLiveScoreboard"
	opAthlete        = "GetAthlete"
	opGameSummary    = "GetGameSummary"
	opSchedule       = "GetSchedule"
)

// Client answers typed ESPN queries through the memoizing cache and the
// resilient fetcher.
type Client struct {
	fetcher *fetch.Client
	store   *cache.Cache
	log     *logger.Logger
}

// New builds a client over an existing fetcher and cache. Both are shared
// with the caller; their lifetimes are the caller's responsibility.
func New(fetcher *fetch.Client, store *cache.Cache) *Client {
	return &Client{
		fetcher: fetcher,
		store:   store,
		log:     logger.WithComponent("espn"),
	}
}

// Teams returns the league's team list.
func (c *Client) Teams(ctx context.Context) (*TeamsResponse, error) {
	key := c.store.GenerateKey(opTeams)
	return cache.GetOrSet(ctx, c.store, key, func(ctx context.Context) (*TeamsResponse, error) {
		return fetch.FetchAs[*TeamsResponse](ctx, c.fetcher, "/teams")
	})
}

// Scoreboard returns the games of one week of the current season.
func (c *Client) Scoreboard(ctx context.Context, week int) (*Scoreboard, error) {
	key := c.store.GenerateKey(opScoreboard, week)
	endpoint := fmt.Sprintf("/scoreboard?week=%d", week)
	return cache.GetOrSet(ctx, c.store, key, func(ctx context.Context) (*Scoreboard, error) {
		return fetch.FetchAs[*Scoreboard](ctx, c.fetcher, endpoint)
	})
}

// LiveScoreboard returns the current scoreboard under the short live TTL,
// for callers polling in-progress games.
func (c *Client) LiveScoreboard(ctx context.Context) (*Scoreboard, error) {
	key := c.store.GenerateKey(opLiveScoreboard)
	return cache.GetOrSet(ctx, c.store, key, func(ctx context.Context) (*Scoreboard, error) {
		return fetch.FetchAs[*Scoreboard](ctx, c.fetcher, "/scoreboard")
	})
}

// Athlete returns one player's profile.
func (c *Client) Athlete(ctx context.Context, id string) (*Athlete, error) {
	if id == "" {
		return nil, fetch.NewValidationError("athlete id is empty")
	}

	key := c.store.GenerateKey(opAthlete, id)
	endpoint := fmt.Sprintf("/athletes/%s", id)
	env, err := cache.GetOrSet(ctx, c.store, key, func(ctx context.Context) (*athleteEnvelope, error) {
		return fetch.FetchAs[*athleteEnvelope](ctx, c.fetcher, endpoint)
	})
	if err != nil {
		return nil, err
	}
	return &env.Athlete, nil
}

// GameSummary returns the summary, including the raw box score, for one
// event.
func (c *Client) GameSummary(ctx context.Context, eventID string) (*GameSummary, error) {
	if eventID == "" {
		return nil, fetch.NewValidationError("event id is empty")
	}

	key := c.store.GenerateKey(opGameSummary, eventID)
	endpoint := fmt.Sprintf("/summary?event=%s", eventID)
	return cache.GetOrSet(ctx, c.store, key, func(ctx context.Context) (*GameSummary, error) {
		return fetch.FetchAs[*GameSummary](ctx, c.fetcher, endpoint)
	})
}

// Schedule returns the scoreboard for a specific week of a season, cached
// under the long-lived schedule TTL.
func (c *Client) Schedule(ctx context.Context, year, week int) (*Scoreboard, error) {
	key := c.store.GenerateKey(opSchedule, year, week)
	endpoint := fmt.Sprintf("/scoreboard?dates=%d&week=%d", year, week)
	return cache.GetOrSet(ctx, c.store, key, func(ctx context.Context) (*Scoreboard, error) {
		return fetch.FetchAs[*Scoreboard](ctx, c.fetcher, endpoint)
	})
}

// Invalidate drops every cached entry whose key matches the pattern,
// returning the number removed. Useful after a roster move or corrected
// stat line.
func (c *Client) Invalidate(pattern string) (int, error) {
	return c.store.RemoveByPattern(pattern)
}

// WarmTeams pre-populates the team list when cache warming is enabled.
func (c *Client) WarmTeams(ctx context.Context) error {
	_, err := c.store.Warm(ctx, []cache.WarmEntry{{
		Key: c.store.GenerateKey(opTeams),
		Factory: func(ctx context.Context) (any, error) {
			return fetch.FetchAs[*TeamsResponse](ctx, c.fetcher, "/teams")
		},
	}})
	return err
}
