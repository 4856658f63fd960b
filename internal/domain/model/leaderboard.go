package model

type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	Score        int    `json:"score"`
	ContestCount int    `json:"contest_count"`
}
