package riot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, serverURL string, opts ...Option) *Client {
	t.Helper()
	t.Setenv("RIOT_API_KEY", "RGAPI-test-key")

	opts = append([]Option{WithBaseURL(serverURL)}, opts...)
	client, err := NewClient(opts...)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

// TestNewClient_MissingKey tests that a missing RIOT_API_KEY is a hard error
func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv("RIOT_API_KEY", "")

	if _, err := NewClient(); err == nil {
		t.Error("Expected error when RIOT_API_KEY is not set")
	}
}

// TestGetMatchHistory_RequestShape tests that history requests carry the
// count parameter, no queue filter, and the API key header
func TestGetMatchHistory_RequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Riot-Token") != "RGAPI-test-key" {
			t.Errorf("Expected X-Riot-Token header, got: %q", r.Header.Get("X-Riot-Token"))
		}
		if !strings.Contains(r.URL.Path, "/lol/match/v5/matches/by-puuid/test-puuid/ids") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("count"); got != "5" {
			t.Errorf("Expected count=5, got: %q", got)
		}
		if r.URL.Query().Has("queue") {
			t.Error("History request must not be pre-filtered by queue")
		}
		w.Write([]byte(`["NA1_100","NA1_101","NA1_102"]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	ids, err := client.GetMatchHistory(context.Background(), "test-puuid", 5)
	if err != nil {
		t.Fatalf("GetMatchHistory failed: %v", err)
	}
	if len(ids) != 3 || ids[0] != "NA1_100" {
		t.Errorf("Unexpected match ids: %v", ids)
	}
}

// TestGetLeagueByTier_Challenger tests leaderboard path and decoding
func TestGetLeagueByTier_Challenger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lol/league/v4/challengerleagues/by-queue/RANKED_SOLO_5x5" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"tier":"CHALLENGER","queue":"RANKED_SOLO_5x5","entries":[
			{"summonerId":"s1","puuid":"p1","leaguePoints":1200},
			{"summonerId":"s2","puuid":"p2","leaguePoints":1100}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	league, err := client.GetLeagueByTier(context.Background(), "CHALLENGER", "RANKED_SOLO_5x5")
	if err != nil {
		t.Fatalf("GetLeagueByTier failed: %v", err)
	}
	if league.Tier != "CHALLENGER" {
		t.Errorf("Expected tier CHALLENGER, got: %s", league.Tier)
	}
	if len(league.Entries) != 2 || league.Entries[0].PUUID != "p1" {
		t.Errorf("Unexpected entries: %+v", league.Entries)
	}
}

// TestGetLeagueByTier_Grandmaster tests that grandmaster uses its own endpoint
func TestGetLeagueByTier_Grandmaster(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"tier":"GRANDMASTER","entries":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	if _, err := client.GetLeagueByTier(context.Background(), "GRANDMASTER", "RANKED_SOLO_5x5"); err != nil {
		t.Fatalf("GetLeagueByTier failed: %v", err)
	}
	if gotPath != "/lol/league/v4/grandmasterleagues/by-queue/RANKED_SOLO_5x5" {
		t.Errorf("Unexpected path: %s", gotPath)
	}
}

// TestGetLeagueByTier_UnsupportedTier tests that non-apex tiers have no endpoint
func TestGetLeagueByTier_UnsupportedTier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("No request should be made for an unsupported tier")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	if _, err := client.GetLeagueByTier(context.Background(), "DIAMOND", "RANKED_SOLO_5x5"); err == nil {
		t.Error("Expected error for tier without a leaderboard endpoint")
	}
}

// TestDoRequest_Forbidden tests that 403 maps to the ErrForbidden sentinel
func TestDoRequest_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.GetMatch(context.Background(), "NA1_1")
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got: %v", err)
	}
}

// TestDoRequest_NotFound tests that 404 maps to the ErrNotFound sentinel
func TestDoRequest_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.GetMatch(context.Background(), "NA1_1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

// TestDoRequest_RateLimitRetry tests that a 429 is retried after Retry-After
func TestDoRequest_RateLimitRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"metadata":{"matchId":"NA1_1"},"info":{"queueId":420}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	match, err := client.GetMatch(context.Background(), "NA1_1")
	if err != nil {
		t.Fatalf("GetMatch failed after retry: %v", err)
	}
	if match.Metadata.MatchID != "NA1_1" {
		t.Errorf("Unexpected match id: %s", match.Metadata.MatchID)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("Expected 2 requests (429 then 200), got %d", calls)
	}
}

// TestGetMatch_CacheHit tests that repeat detail fetches are served locally
func TestGetMatch_CacheHit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"metadata":{"matchId":"NA1_1"},"info":{"queueId":420}}`))
	}))
	defer server.Close()

	cache := NewMatchCache(16)
	client := newTestClient(t, server.URL, WithCache(cache))

	for i := 0; i < 3; i++ {
		if _, err := client.GetMatch(context.Background(), "NA1_1"); err != nil {
			t.Fatalf("GetMatch failed: %v", err)
		}
	}

	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Expected 1 HTTP request, got %d", calls)
	}
	stats := client.CacheStats()
	if stats.Hits != 2 {
		t.Errorf("Expected 2 cache hits, got %d", stats.Hits)
	}
}

// TestValidateKey_Valid tests that a 200 from the status endpoint means valid
func TestValidateKey_Valid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Riot-Token") == "" {
			t.Error("Expected X-Riot-Token header to be set")
		}
		w.Write([]byte(`{"id":"NA1","name":"North America"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	valid, err := client.ValidateKey(context.Background())
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if !valid {
		t.Error("Expected key to be valid")
	}
}

// TestValidateKey_Invalid tests that 401/403 mean invalid, without error
func TestValidateKey_Invalid(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := newTestClient(t, server.URL)

		valid, err := client.ValidateKey(context.Background())
		if err != nil {
			t.Errorf("status %d: expected no error, got: %v", status, err)
		}
		if valid {
			t.Errorf("status %d: expected key to be invalid", status)
		}
		server.Close()
	}
}

// TestValidateKey_ServerError tests that 5xx leaves key validity unknown
func TestValidateKey_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	valid, err := client.ValidateKey(context.Background())
	if err == nil {
		t.Error("Expected server error to be returned")
	}
	if valid {
		t.Error("Expected key to not be valid on server error")
	}
}

// TestValidateKey_Timeout tests that timeouts return an error
func TestValidateKey_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second) // Delay longer than timeout
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL,
		WithHTTPClient(&http.Client{Timeout: 100 * time.Millisecond}))

	valid, err := client.ValidateKey(context.Background())
	if err == nil {
		t.Error("Expected timeout error to be returned")
	}
	if valid {
		t.Error("Expected key to not be valid on timeout")
	}
}

// TestSetRegion_Routing tests that switching the active region switches both
// the platform and regional hosts
func TestSetRegion_Routing(t *testing.T) {
	t.Setenv("RIOT_API_KEY", "RGAPI-test-key")
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	kr, ok := RegionByName("korea")
	if !ok {
		t.Fatal("korea missing from region roster")
	}
	client.SetRegion(kr)

	if client.platformBaseURL != "https://kr.api.riotgames.com" {
		t.Errorf("Unexpected platform URL: %s", client.platformBaseURL)
	}
	if client.regionalBaseURL != "https://asia.api.riotgames.com" {
		t.Errorf("Unexpected regional URL: %s", client.regionalBaseURL)
	}
	if client.Region().Name != "korea" {
		t.Errorf("Unexpected active region: %s", client.Region().Name)
	}
}

// TestSetRegion_OverridePinned tests that a test base URL survives region switches
func TestSetRegion_OverridePinned(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")

	euw, _ := RegionByName("europe_west")
	client.SetRegion(euw)

	if client.platformBaseURL != "http://127.0.0.1:1" || client.regionalBaseURL != "http://127.0.0.1:1" {
		t.Error("SetRegion must not clobber a pinned base URL")
	}
}
