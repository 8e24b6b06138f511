package types

import "time"

// Team is a named group of Codeforces handles. Members are validated
// against Codeforces when the team is created and are immutable
// afterwards.
type Team struct {
	// ID is the generated unique identifier of the team.
	ID string `json:"id" bson:"_id"`

	// Name is the human-readable team name.
	Name string `json:"name" bson:"name"`

	// Members are the Codeforces handles belonging to the team, in the
	// order they were submitted.
	Members []string `json:"members" bson:"members"`

	// CreatedBy is the handle of whoever created the team.
	CreatedBy string `json:"createdBy" bson:"createdBy"`

	// CreatedAt is the timestamp the team was persisted.
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Leaderboard ranks a team's members by current rating.
type Leaderboard struct {
	TeamID      string             `json:"teamId"`
	TeamName    string             `json:"teamName"`
	MemberCount int                `json:"memberCount"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// LeaderboardEntry is one ranked member. Members whose data could not be
// fetched appear with zeroed fields and a non-empty Error.
type LeaderboardEntry struct {
	UserSummary

	// Position is the 1-based rank after sorting by rating, then solved
	// count, both descending.
	Position int `json:"position"`

	// Error marks entries whose summary fetch failed.
	Error string `json:"error,omitempty"`
}
