package riot

import "strings"

// Region describes one Riot shard: the human-readable name used in output
// records, the platform code the league-v4 endpoints live on, and the
// regional routing group serving match-v5.
type Region struct {
	Name     string // e.g. "north_america"
	Platform string // e.g. "NA1"
	Group    string // routing group: americas, europe, asia, sea
}

// regions is the fixed collection roster. Order matters: the traversal
// walks regions in this order and output records follow it.
var regions = []Region{
	{Name: "north_america", Platform: "NA1", Group: "americas"},
	{Name: "europe_west", Platform: "EUW1", Group: "europe"},
	{Name: "korea", Platform: "KR", Group: "asia"},
	{Name: "latin_america_north", Platform: "LA1", Group: "americas"},
	{Name: "latin_america_south", Platform: "LA2", Group: "americas"},
	{Name: "brazil", Platform: "BR1", Group: "americas"},
	{Name: "japan", Platform: "JP1", Group: "asia"},
	{Name: "russia", Platform: "RU", Group: "europe"},
	{Name: "turkey", Platform: "TR1", Group: "europe"},
	{Name: "oceania", Platform: "OC1", Group: "sea"},
	{Name: "europe_nordic_and_east", Platform: "EUN1", Group: "europe"},
	{Name: "southeast_asia", Platform: "SG2", Group: "sea"},
}

// AllRegions returns the collection roster in its fixed order.
func AllRegions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// RegionByName looks up a region by its output name (e.g. "korea").
func RegionByName(name string) (Region, bool) {
	for _, r := range regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

// platformURL returns the base URL for platform-routed endpoints (league-v4,
// lol-status) of this region.
func (r Region) platformURL() string {
	return "https://" + strings.ToLower(r.Platform) + ".api.riotgames.com"
}

// regionalURL returns the base URL for regionally-routed endpoints (match-v5).
func (r Region) regionalURL() string {
	return "https://" + r.Group + ".api.riotgames.com"
}

// Queue is a ranked matchmaking mode.
type Queue struct {
	ID   int    // queue id on the wire (match-v5 queueId)
	Name string // league-v4 queue name
}

// RankedQueues are the queues the ETL collects, in traversal order.
var RankedQueues = []Queue{
	{ID: 420, Name: "RANKED_SOLO_5x5"},
	{ID: 440, Name: "RANKED_FLEX_SR"},
}

// QueueName maps a queue id to its name, or "Unknown" for anything outside
// the ranked queue table.
func QueueName(id int) string {
	for _, q := range RankedQueues {
		if q.ID == id {
			return q.Name
		}
	}
	return "Unknown"
}
