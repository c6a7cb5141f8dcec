package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"ranked-etl/internal/etl"
)

// baseColumns is the fixed row-level column order.
var baseColumns = []string{
	"match_id", "region", "platform", "queue_id", "queue_name", "season",
	"game_version", "game_creation", "game_duration", "game_mode",
	"game_type", "map_id",
}

type column struct {
	name  string
	value string
}

// WriteCSV writes the tabular form: one row per record, with every team
// flattened into team_{i+1}_* columns and only the FIRST participant
// flattened into participant_1_* columns. Records with more participants
// lose the rest in this form; that is the intended shape of the tabular
// export, not an oversight.
//
// The header is the first-seen-order union of columns across all records;
// rows leave columns they lack empty.
func WriteCSV(records []etl.MatchRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	flattened := make([][]column, len(records))
	var header []string
	seen := make(map[string]bool)
	for i, r := range records {
		flattened[i] = flattenRecord(r)
		for _, col := range flattened[i] {
			if !seen[col.name] {
				seen[col.name] = true
				header = append(header, col.name)
			}
		}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, cols := range flattened {
		row := make([]string, len(header))
		for _, col := range cols {
			row[index[col.name]] = col.value
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

func flattenRecord(r etl.MatchRecord) []column {
	cols := []column{
		{"match_id", r.MatchID},
		{"region", r.Region},
		{"platform", r.Platform},
		{"queue_id", strconv.Itoa(r.QueueID)},
		{"queue_name", r.QueueName},
		{"season", strconv.Itoa(r.Season)},
		{"game_version", r.GameVersion},
		{"game_creation", r.GameCreation.Format(time.RFC3339)},
		{"game_duration", strconv.Itoa(r.GameDuration)},
		{"game_mode", r.GameMode},
		{"game_type", r.GameType},
		{"map_id", strconv.Itoa(r.MapID)},
	}

	for i, team := range r.Teams {
		prefix := fmt.Sprintf("team_%d_", i+1)
		cols = append(cols,
			column{prefix + "team_id", strconv.Itoa(team.TeamID)},
			column{prefix + "win", strconv.FormatBool(team.Win)},
			column{prefix + "first_blood", strconv.FormatBool(team.FirstBlood)},
			column{prefix + "first_tower", strconv.FormatBool(team.FirstTower)},
			column{prefix + "first_inhibitor", strconv.FormatBool(team.FirstInhibitor)},
			column{prefix + "first_baron", strconv.FormatBool(team.FirstBaron)},
			column{prefix + "first_dragon", strconv.FormatBool(team.FirstDragon)},
			column{prefix + "first_rift_herald", strconv.FormatBool(team.FirstRiftHerald)},
			column{prefix + "tower_kills", strconv.Itoa(team.TowerKills)},
			column{prefix + "inhibitor_kills", strconv.Itoa(team.InhibitorKills)},
			column{prefix + "baron_kills", strconv.Itoa(team.BaronKills)},
			column{prefix + "dragon_kills", strconv.Itoa(team.DragonKills)},
			column{prefix + "rift_herald_kills", strconv.Itoa(team.RiftHeraldKills)},
		)
	}

	// First participant only, as representative.
	if len(r.Participants) > 0 {
		p := r.Participants[0]
		cols = append(cols,
			column{"participant_1_summoner_id", p.SummonerID},
			column{"participant_1_summoner_name", p.SummonerName},
			column{"participant_1_champion_id", strconv.Itoa(p.ChampionID)},
			column{"participant_1_champion_name", p.ChampionName},
			column{"participant_1_team_id", strconv.Itoa(p.TeamID)},
			column{"participant_1_kills", strconv.Itoa(p.Kills)},
			column{"participant_1_deaths", strconv.Itoa(p.Deaths)},
			column{"participant_1_assists", strconv.Itoa(p.Assists)},
			column{"participant_1_gold_earned", strconv.Itoa(p.GoldEarned)},
			column{"participant_1_total_damage_dealt", strconv.Itoa(p.TotalDamageDealt)},
			column{"participant_1_vision_score", strconv.Itoa(p.VisionScore)},
			column{"participant_1_win", strconv.FormatBool(p.Win)},
		)
	}

	return cols
}
