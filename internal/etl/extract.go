package etl

import (
	"fmt"
	"strconv"
	"time"

	"ranked-etl/internal/riot"
)

// ExtractMatch projects one upstream match into a MatchRecord. The region
// and platform come from the caller (the traversal knows which shard it
// fetched under), never from the match body.
//
// Top-level fields fall back to 0/"Unknown" when the upstream payload lacks
// them, and participant stats default to zeros, so those fields are never
// absent in output. Team objective data has no fallback: a match with
// missing or malformed team data fails extraction and the caller drops it.
func ExtractMatch(m *riot.MatchResponse, region, platform string) (*MatchRecord, error) {
	if m == nil {
		return nil, fmt.Errorf("nil match")
	}

	matchID := m.Metadata.MatchID
	if matchID == "" {
		// Older payloads carry only the numeric game id.
		matchID = strconv.FormatInt(m.Info.GameID, 10)
	}

	queueName := "Unknown"
	if m.Info.QueueID != 0 {
		queueName = riot.QueueName(m.Info.QueueID)
	}

	gameMode := m.Info.GameMode
	if gameMode == "" {
		gameMode = "Unknown"
	}
	gameType := m.Info.GameType
	if gameType == "" {
		gameType = "Unknown"
	}

	participants := make([]ParticipantRecord, 0, len(m.Info.Participants))
	for _, p := range m.Info.Participants {
		participants = append(participants, ParticipantRecord{
			SummonerID:       p.SummonerID,
			SummonerName:     p.SummonerName,
			ChampionID:       p.ChampionID,
			ChampionName:     p.ChampionName,
			TeamID:           p.TeamID,
			Kills:            p.Kills,
			Deaths:           p.Deaths,
			Assists:          p.Assists,
			GoldEarned:       p.GoldEarned,
			TotalDamageDealt: p.TotalDamageDealt,
			VisionScore:      p.VisionScore,
			Win:              p.Win,
		})
	}

	if len(m.Info.Teams) == 0 {
		return nil, fmt.Errorf("match %s has no team data", matchID)
	}

	teams := make([]TeamRecord, 0, len(m.Info.Teams))
	for _, team := range m.Info.Teams {
		if team.Objectives == nil {
			return nil, fmt.Errorf("match %s: team %d has no objectives", matchID, team.TeamID)
		}
		obj := team.Objectives
		teams = append(teams, TeamRecord{
			TeamID:          team.TeamID,
			Win:             team.Win,
			FirstBlood:      obj.Champion.First,
			FirstTower:      obj.Tower.First,
			FirstInhibitor:  obj.Inhibitor.First,
			FirstBaron:      obj.Baron.First,
			FirstDragon:     obj.Dragon.First,
			FirstRiftHerald: obj.RiftHerald.First,
			TowerKills:      obj.Tower.Kills,
			InhibitorKills:  obj.Inhibitor.Kills,
			BaronKills:      obj.Baron.Kills,
			DragonKills:     obj.Dragon.Kills,
			RiftHeraldKills: obj.RiftHerald.Kills,
		})
	}

	return &MatchRecord{
		MatchID:      matchID,
		Region:       region,
		Platform:     platform,
		QueueID:      m.Info.QueueID,
		QueueName:    queueName,
		Season:       SeasonFromVersion(m.Info.GameVersion),
		GameVersion:  m.Info.GameVersion,
		GameCreation: time.UnixMilli(m.Info.GameCreation).UTC(),
		GameDuration: m.Info.GameDuration,
		Participants: participants,
		Teams:        teams,
		GameMode:     gameMode,
		GameType:     gameType,
		MapID:        m.Info.MapID,
	}, nil
}
