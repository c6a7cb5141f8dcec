package etl

import (
	"strconv"
	"strings"
	"time"
)

// MatchRecord is the flat output unit of a run. Records are constructed once
// per extracted match, appended to the run aggregate, and never mutated.
type MatchRecord struct {
	MatchID      string              `json:"match_id"`
	Region       string              `json:"region"`
	Platform     string              `json:"platform"`
	QueueID      int                 `json:"queue_id"`
	QueueName    string              `json:"queue_name"`
	Season       int                 `json:"season"`
	GameVersion  string              `json:"game_version"`
	GameCreation time.Time           `json:"game_creation"`
	GameDuration int                 `json:"game_duration"`
	Participants []ParticipantRecord `json:"participants"`
	Teams        []TeamRecord        `json:"teams"`
	GameMode     string              `json:"game_mode"`
	GameType     string              `json:"game_type"`
	MapID        int                 `json:"map_id"`
}

type ParticipantRecord struct {
	SummonerID       string `json:"summoner_id"`
	SummonerName     string `json:"summoner_name"`
	ChampionID       int    `json:"champion_id"`
	ChampionName     string `json:"champion_name"`
	TeamID           int    `json:"team_id"`
	Kills            int    `json:"kills"`
	Deaths           int    `json:"deaths"`
	Assists          int    `json:"assists"`
	GoldEarned       int    `json:"gold_earned"`
	TotalDamageDealt int    `json:"total_damage_dealt"`
	VisionScore      int    `json:"vision_score"`
	Win              bool   `json:"win"`
}

type TeamRecord struct {
	TeamID           int  `json:"team_id"`
	Win              bool `json:"win"`
	FirstBlood       bool `json:"first_blood"`
	FirstTower       bool `json:"first_tower"`
	FirstInhibitor   bool `json:"first_inhibitor"`
	FirstBaron       bool `json:"first_baron"`
	FirstDragon      bool `json:"first_dragon"`
	FirstRiftHerald  bool `json:"first_rift_herald"`
	TowerKills       int  `json:"tower_kills"`
	InhibitorKills   int  `json:"inhibitor_kills"`
	BaronKills       int  `json:"baron_kills"`
	DragonKills      int  `json:"dragon_kills"`
	RiftHeraldKills  int  `json:"rift_herald_kills"`
}

// SeasonFromVersion derives the season number from the game version's major
// segment ("15.4.652.1234" -> 15). Returns 0 when the version is unparseable.
func SeasonFromVersion(version string) int {
	major, _, _ := strings.Cut(version, ".")
	season, err := strconv.Atoi(major)
	if err != nil || season < 0 {
		return 0
	}
	return season
}
