package etl

import (
	"log"
	"sort"
)

// Summary holds grouped counts over a run's aggregate.
type Summary struct {
	Total    int
	ByRegion map[string]int
	ByQueue  map[string]int
	BySeason map[int]int
}

// Summarize computes grouped counts by region, queue name, and season.
// Empty input yields empty groupings, never an error.
func Summarize(records []MatchRecord) Summary {
	s := Summary{
		Total:    len(records),
		ByRegion: make(map[string]int),
		ByQueue:  make(map[string]int),
		BySeason: make(map[int]int),
	}
	for _, r := range records {
		s.ByRegion[r.Region]++
		s.ByQueue[r.QueueName]++
		s.BySeason[r.Season]++
	}
	return s
}

// Log renders the summary with each grouping sorted by key.
func (s Summary) Log() {
	if s.Total == 0 {
		log.Println("[Summary] No data to generate statistics for")
		return
	}

	log.Println("=== SUMMARY STATISTICS ===")
	log.Printf("Total matches processed: %d", s.Total)

	log.Println("Matches by Region:")
	for _, region := range sortedKeys(s.ByRegion) {
		log.Printf("  %s: %d", region, s.ByRegion[region])
	}

	log.Println("Matches by Queue:")
	for _, queue := range sortedKeys(s.ByQueue) {
		log.Printf("  %s: %d", queue, s.ByQueue[queue])
	}

	log.Println("Matches by Season:")
	seasons := make([]int, 0, len(s.BySeason))
	for season := range s.BySeason {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)
	for _, season := range seasons {
		log.Printf("  Season %d: %d", season, s.BySeason[season])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
