package riot

// LeagueList represents the response from
// /lol/league/v4/{challenger,grandmaster}leagues/by-queue/{queue}
type LeagueList struct {
	LeagueID string        `json:"leagueId"`
	Tier     string        `json:"tier"`
	Queue    string        `json:"queue"`
	Name     string        `json:"name"`
	Entries  []LeagueEntry `json:"entries"`
}

// LeagueEntry is one player on a leaderboard.
type LeagueEntry struct {
	SummonerID   string `json:"summonerId"`
	PUUID        string `json:"puuid"`
	LeaguePoints int    `json:"leaguePoints"`
	Rank         string `json:"rank"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// MatchResponse represents the response from /lol/match/v5/matches/{matchId}
type MatchResponse struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type MatchInfo struct {
	GameID       int64              `json:"gameId"`
	GameCreation int64              `json:"gameCreation"` // epoch milliseconds
	GameDuration int                `json:"gameDuration"` // seconds
	GameMode     string             `json:"gameMode"`
	GameType     string             `json:"gameType"`
	GameVersion  string             `json:"gameVersion"`
	MapID        int                `json:"mapId"`
	QueueID      int                `json:"queueId"`
	Participants []MatchParticipant `json:"participants"`
	Teams        []MatchTeam        `json:"teams"`
}

type MatchParticipant struct {
	SummonerID       string `json:"summonerId"`
	SummonerName     string `json:"summonerName"`
	PUUID            string `json:"puuid"`
	ChampionID       int    `json:"championId"`
	ChampionName     string `json:"championName"`
	TeamID           int    `json:"teamId"`
	Kills            int    `json:"kills"`
	Deaths           int    `json:"deaths"`
	Assists          int    `json:"assists"`
	GoldEarned       int    `json:"goldEarned"`
	TotalDamageDealt int    `json:"totalDamageDealt"`
	VisionScore      int    `json:"visionScore"`
	Win              bool   `json:"win"`
}

// MatchTeam carries per-team objective data. Objectives is a pointer so a
// malformed team payload is distinguishable from an all-zeros one.
type MatchTeam struct {
	TeamID     int             `json:"teamId"`
	Win        bool            `json:"win"`
	Objectives *TeamObjectives `json:"objectives"`
}

type TeamObjectives struct {
	Champion   ObjectiveStat `json:"champion"` // first kill here = first blood
	Tower      ObjectiveStat `json:"tower"`
	Inhibitor  ObjectiveStat `json:"inhibitor"`
	Baron      ObjectiveStat `json:"baron"`
	Dragon     ObjectiveStat `json:"dragon"`
	RiftHerald ObjectiveStat `json:"riftHerald"`
}

type ObjectiveStat struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}
