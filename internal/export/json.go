package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"ranked-etl/internal/etl"
)

// Filenames returns the timestamped output names for one run.
func Filenames(now time.Time) (jsonName, csvName string) {
	stamp := now.Format("20060102_150405")
	return fmt.Sprintf("lol_ranked_matches_%s.json", stamp),
		fmt.Sprintf("lol_ranked_matches_%s.csv", stamp)
}

// WriteJSON writes the full aggregate as an indented JSON array with nested
// participant/team sequences preserved and timestamps in RFC 3339.
func WriteJSON(records []etl.MatchRecord, path string) error {
	if records == nil {
		records = []etl.MatchRecord{}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
