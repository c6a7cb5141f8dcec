package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"
)

const (
	// Rate limits for dev key (using conservative values to be safe)
	requestsPerSecond = 15 // Actual: 20, using 15 for safety
	requestsPer2Min   = 90 // Actual: 100, using 90 for safety

	// Lightweight endpoint for key validation (LoL Status API)
	statusEndpoint = "/lol/status/v4/platform-data"
)

// API failure classes callers branch on with errors.Is.
var (
	ErrUnauthorized = errors.New("API returned 401 Unauthorized - API key missing or malformed")
	ErrForbidden    = errors.New("API returned 403 Forbidden - check if your API key is valid")
	ErrNotFound     = errors.New("API returned 404 Not Found - player/match may not exist")
)

// Client is a rate-limited Riot API client with an active region.
// SetRegion switches which shard subsequent calls are routed to.
type Client struct {
	apiKey     string
	httpClient *http.Client
	cache      *MatchCache

	// Active region routing. baseURLOverride pins both endpoints to one
	// URL for tests.
	region          Region
	platformBaseURL string
	regionalBaseURL string
	baseURLOverride string

	// Rate limiting
	mu          sync.Mutex
	shortWindow []time.Time // Requests in last second
	longWindow  []time.Time // Requests in last 2 minutes
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL pins both platform and regional routing to one base URL
// (useful for testing against httptest servers).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURLOverride = url
		c.platformBaseURL = url
		c.regionalBaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithCache attaches a match cache so repeat detail fetches are served
// locally instead of spending rate-limit budget.
func WithCache(cache *MatchCache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// NewClient creates a new Riot API client. The key comes from RIOT_API_KEY;
// the active region starts at the first roster entry.
func NewClient(opts ...Option) (*Client, error) {
	apiKey := os.Getenv("RIOT_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY environment variable not set")
	}

	// Show key prefix for debugging (don't show full key)
	if len(apiKey) > 10 {
		fmt.Printf("Using API key: %s...%s\n", apiKey[:8], apiKey[len(apiKey)-4:])
	}

	c := &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		shortWindow: make([]time.Time, 0),
		longWindow:  make([]time.Time, 0),
	}
	c.SetRegion(regions[0])

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SetRegion switches the active region for subsequent calls.
func (c *Client) SetRegion(r Region) {
	c.region = r
	if c.baseURLOverride != "" {
		return
	}
	c.platformBaseURL = r.platformURL()
	c.regionalBaseURL = r.regionalURL()
}

// Region returns the active region.
func (c *Client) Region() Region {
	return c.region
}

// waitForRateLimit blocks until we can make another request
func (c *Client) waitForRateLimit() {
	for {
		c.mu.Lock()

		now := time.Now()

		// Clean up old entries
		oneSecondAgo := now.Add(-1 * time.Second)
		twoMinutesAgo := now.Add(-2 * time.Minute)

		// Filter short window
		newShort := make([]time.Time, 0)
		for _, t := range c.shortWindow {
			if t.After(oneSecondAgo) {
				newShort = append(newShort, t)
			}
		}
		c.shortWindow = newShort

		// Filter long window
		newLong := make([]time.Time, 0)
		for _, t := range c.longWindow {
			if t.After(twoMinutesAgo) {
				newLong = append(newLong, t)
			}
		}
		c.longWindow = newLong

		// Check if we need to wait for short window
		if len(c.shortWindow) >= requestsPerSecond {
			waitTime := c.shortWindow[0].Add(time.Second).Sub(now) + 100*time.Millisecond
			c.mu.Unlock()
			fmt.Printf("      [Rate limit] %d req/sec, waiting %.1fs...\n", len(c.shortWindow), waitTime.Seconds())
			time.Sleep(waitTime)
			continue // Re-check after waiting
		}

		// Check if we need to wait for long window
		if len(c.longWindow) >= requestsPer2Min {
			waitTime := c.longWindow[0].Add(2*time.Minute).Sub(now) + 100*time.Millisecond
			c.mu.Unlock()
			fmt.Printf("      [Rate limit] %d req/2min, waiting %.1fs...\n", len(c.longWindow), waitTime.Seconds())
			time.Sleep(waitTime)
			continue // Re-check after waiting
		}

		// Record this request and exit loop
		c.shortWindow = append(c.shortWindow, time.Now())
		c.longWindow = append(c.longWindow, time.Now())
		c.mu.Unlock()
		return
	}
}

// doRequest makes a rate-limited request
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	c.waitForRateLimit()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		// Rate limited - wait and retry
		retryAfter := resp.Header.Get("Retry-After")
		waitTime := 10 // Default 10 seconds
		if retryAfter != "" {
			fmt.Sscanf(retryAfter, "%d", &waitTime)
		}
		fmt.Printf("      [429 Rate Limited] Waiting %d seconds...\n", waitTime)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(waitTime) * time.Second):
		}
		return c.doRequest(ctx, url, result)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// GetLeagueByTier fetches the leaderboard for an apex tier on the active
// region. Only CHALLENGER and GRANDMASTER have dedicated leaderboards;
// anything else is an error here (the traversal decides what to do with
// unsupported tiers before calling).
func (c *Client) GetLeagueByTier(ctx context.Context, tier, queue string) (*LeagueList, error) {
	var path string
	switch tier {
	case "CHALLENGER":
		path = "/lol/league/v4/challengerleagues/by-queue/" + queue
	case "GRANDMASTER":
		path = "/lol/league/v4/grandmasterleagues/by-queue/" + queue
	default:
		return nil, fmt.Errorf("no leaderboard endpoint for tier %q", tier)
	}

	var league LeagueList
	if err := c.doRequest(ctx, c.platformBaseURL+path, &league); err != nil {
		return nil, err
	}
	return &league, nil
}

// GetMatchHistory fetches the most recent match IDs for a player across all
// queues. The history is deliberately un-prefiltered: the caller truncates
// to count first and applies its queue filter afterwards.
func (c *Client) GetMatchHistory(ctx context.Context, puuid string, count int) ([]string, error) {
	url := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=%d",
		c.regionalBaseURL, puuid, count)

	var matchIDs []string
	err := c.doRequest(ctx, url, &matchIDs)
	return matchIDs, err
}

// GetMatch fetches match details, served from the cache when possible.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*MatchResponse, error) {
	if c.cache != nil {
		if m, ok := c.cache.Get(matchID); ok {
			return m, nil
		}
	}

	url := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.regionalBaseURL, matchID)

	var match MatchResponse
	if err := c.doRequest(ctx, url, &match); err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Put(matchID, &match)
	}
	return &match, nil
}

// CacheStats reports the match cache counters, or zeros when no cache is
// attached.
func (c *Client) CacheStats() CacheStats {
	if c.cache == nil {
		return CacheStats{}
	}
	return c.cache.Stats()
}

// ValidateKey checks the API key against the status endpoint of the active
// region.
// Returns:
//   - (true, nil) if the key is valid
//   - (false, nil) if the key is invalid (401/403)
//   - (false, error) if there was a network/server error (key validity unknown)
func (c *Client) ValidateKey(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.platformBaseURL+statusEndpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil

	case http.StatusUnauthorized, http.StatusForbidden:
		// Key is invalid or expired (401/403)
		return false, nil

	default:
		// Server error or unexpected response - we can't determine if key is valid
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}
