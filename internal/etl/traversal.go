package etl

import (
	"context"
	"errors"
	"log"

	"ranked-etl/internal/riot"
)

const (
	// DefaultMaxMatchesPerRegion is the conservative per-region budget.
	// The cap is applied per region, not globally: the true output bound
	// is len(regions) * budget.
	DefaultMaxMatchesPerRegion = 20

	// DefaultHistoryCount is how many of a player's most recent matches
	// are considered, across all queues, before the queue filter runs.
	DefaultHistoryCount = 5

	// leaderboardCap limits how many players are sampled per apex tier.
	leaderboardCap = 10
)

// DefaultTiers are the tiers sampled when the caller supplies none.
var DefaultTiers = []string{"CHALLENGER", "GRANDMASTER"}

// RankedAPI is the capability set the traversal needs from the upstream
// ranked-data service. The live riot.Client satisfies it; tests inject a
// scripted double.
type RankedAPI interface {
	SetRegion(r riot.Region)
	GetLeagueByTier(ctx context.Context, tier, queue string) (*riot.LeagueList, error)
	GetMatchHistory(ctx context.Context, puuid string, count int) ([]string, error)
	GetMatch(ctx context.Context, matchID string) (*riot.MatchResponse, error)
}

// Runner walks region -> tier -> summoner -> queue -> match, extracting
// records under a per-region budget. Execution is sequential: the upstream
// rate limit leaves no headroom for fan-out, and the client's match cache
// absorbs the repeat fetches instead.
type Runner struct {
	api          RankedAPI
	regions      []riot.Region
	tiers        []string
	maxPerRegion int
	historyCount int
}

// RunnerConfig carries the caller-tunable knobs. Zero values select the
// defaults.
type RunnerConfig struct {
	Regions             []riot.Region
	Tiers               []string
	MaxMatchesPerRegion int
	HistoryCount        int
}

// NewRunner creates a traversal runner over the given API.
func NewRunner(api RankedAPI, cfg RunnerConfig) *Runner {
	r := &Runner{
		api:          api,
		regions:      cfg.Regions,
		tiers:        cfg.Tiers,
		maxPerRegion: cfg.MaxMatchesPerRegion,
		historyCount: cfg.HistoryCount,
	}
	if len(r.regions) == 0 {
		r.regions = riot.AllRegions()
	}
	if len(r.tiers) == 0 {
		r.tiers = append([]string(nil), DefaultTiers...)
	}
	if r.maxPerRegion <= 0 {
		r.maxPerRegion = DefaultMaxMatchesPerRegion
	}
	if r.historyCount <= 0 {
		r.historyCount = DefaultHistoryCount
	}
	return r
}

// Run executes the full traversal and returns the aggregate in discovery
// order (region-major, then tier, summoner, queue, match). A failure inside
// one region is logged and the remaining regions are still attempted;
// cancellation stops the run and returns the partial aggregate.
func (r *Runner) Run(ctx context.Context) []MatchRecord {
	log.Println("[Traversal] Starting ranked match traversal")

	var records []MatchRecord
	for _, region := range r.regions {
		log.Printf("[Traversal] Processing region: %s", region.Name)

		found, err := r.collectRegion(ctx, region, &records)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("[Traversal] Cancelled during %s, returning partial results", region.Name)
				return records
			}
			// Partial region failure never aborts the run.
			log.Printf("[Traversal] Error processing region %s: %v", region.Name, err)
			continue
		}

		log.Printf("[Traversal] Completed processing %s. Found %d matches.", region.Name, found)
	}
	return records
}

// collectRegion runs the tier/summoner/queue/match loops for one region,
// appending extracted records and counting them against the per-region
// budget. It returns an error only for failures that sink the whole region:
// cancellation and auth errors (a dead key fails every call the same way).
func (r *Runner) collectRegion(ctx context.Context, region riot.Region, records *[]MatchRecord) (int, error) {
	r.api.SetRegion(region)

	found := 0
	for _, tier := range r.tiers {
		if found >= r.maxPerRegion {
			break
		}
		if err := ctx.Err(); err != nil {
			return found, err
		}

		log.Printf("[Traversal] Fetching data for %s tier in %s", tier, region.Name)
		entries := r.fetchTierSummoners(ctx, region, tier, "I", 1)

		for _, entry := range entries {
			if found >= r.maxPerRegion {
				break
			}
			if err := ctx.Err(); err != nil {
				return found, err
			}

			for _, queue := range riot.RankedQueues {
				if found >= r.maxPerRegion {
					break
				}
				if err := ctx.Err(); err != nil {
					return found, err
				}

				n, err := r.collectQueueMatches(ctx, region, entry.PUUID, queue, found, records)
				found += n
				if err != nil {
					return found, err
				}
			}
		}
	}
	return found, nil
}

// fetchTierSummoners resolves the representative players for a tier. Apex
// tiers use their dedicated leaderboards, capped to the first entries; any
// other tier yields an empty set with a warning. The division and page
// parameters are accepted for interface compatibility but unused by this
// policy.
func (r *Runner) fetchTierSummoners(ctx context.Context, region riot.Region, tier, division string, page int) []riot.LeagueEntry {
	_ = division
	_ = page

	switch tier {
	case "CHALLENGER", "GRANDMASTER":
		league, err := r.api.GetLeagueByTier(ctx, tier, riot.RankedQueues[0].Name)
		if err != nil {
			log.Printf("[Traversal] Error fetching summoners for %s in %s: %v", tier, region.Name, err)
			return nil
		}
		entries := league.Entries
		if len(entries) > leaderboardCap {
			entries = entries[:leaderboardCap]
		}
		return entries

	default:
		log.Printf("[Traversal] Fetching summoners for tier %s not fully implemented", tier)
		return nil
	}
}

// collectQueueMatches fetches one player's recent history, keeps the matches
// played in the target queue, and extracts records until the region budget
// is spent. The history is truncated to historyCount before the queue filter
// runs: "the most recent N of any queue, keep the matching ones".
func (r *Runner) collectQueueMatches(ctx context.Context, region riot.Region, puuid string, queue riot.Queue, regionFound int, records *[]MatchRecord) (int, error) {
	matchIDs, err := r.api.GetMatchHistory(ctx, puuid, r.historyCount)
	if err != nil {
		if isAuthErr(err) {
			return 0, err
		}
		log.Printf("[Traversal] Error fetching match history for %s: %v", puuid, err)
		return 0, nil
	}

	found := 0
	for _, matchID := range matchIDs {
		if regionFound+found >= r.maxPerRegion {
			break
		}
		if err := ctx.Err(); err != nil {
			return found, err
		}

		match, err := r.api.GetMatch(ctx, matchID)
		if err != nil {
			if isAuthErr(err) {
				return found, err
			}
			log.Printf("[Traversal] Error fetching match %s: %v", matchID, err)
			continue
		}

		if match.Info.QueueID != queue.ID {
			continue
		}

		record, err := ExtractMatch(match, region.Name, region.Platform)
		if err != nil {
			log.Printf("[Extract] Error extracting data from match %s: %v", matchID, err)
			continue
		}

		*records = append(*records, *record)
		found++

		if (regionFound+found)%10 == 0 {
			log.Printf("[Traversal] Processed %d matches in %s", regionFound+found, region.Name)
		}
	}
	return found, nil
}

func isAuthErr(err error) bool {
	return errors.Is(err, riot.ErrUnauthorized) || errors.Is(err, riot.ErrForbidden)
}
