package types

import "strconv"

// UserProfile is the fully aggregated view of a Codeforces account,
// combining basic account data with statistics derived from the user's
// complete submission history.
type UserProfile struct {
	// Username is the Codeforces handle.
	Username string `json:"username"`

	// Rating is the current contest rating. Zero for unrated accounts.
	Rating int `json:"rating"`

	// MaxRating is the highest contest rating ever reached.
	MaxRating int `json:"maxRating"`

	// Rank is the current rank label (e.g., "expert"). "Unrated" when
	// the account has never been rated.
	Rank string `json:"rank"`

	// MaxRank is the rank label matching MaxRating.
	MaxRank string `json:"maxRank"`

	Country      string `json:"country"`
	Organization string `json:"organization"`

	// Avatar is the profile picture URL, falling back to the title photo
	// when no avatar is set.
	Avatar string `json:"avatar"`

	// FriendOfCount is the number of users who marked this account as a
	// friend.
	FriendOfCount int `json:"friendOfCount"`

	// Contribution is the community contribution score.
	Contribution int `json:"contribution"`

	// RegistrationTimeSeconds is the unix timestamp of account creation.
	RegistrationTimeSeconds int64 `json:"registrationTimeSeconds"`

	// SolvedCount is the number of distinct problems the user has an
	// accepted submission for. It always reflects the full deduplicated
	// set, even when SolvedProblems is truncated.
	SolvedCount int `json:"solvedCount"`

	// SubmissionStats is the verdict breakdown over all submissions,
	// without deduplication.
	SubmissionStats SubmissionStats `json:"submissionStats"`

	// ProblemsByTag counts distinct solved problems per tag. A problem
	// carrying k tags contributes one to each of its k counters.
	ProblemsByTag map[string]int `json:"problemsByTag"`

	// ProblemsByRating counts distinct solved problems per rating bucket
	// (rating rounded down to the nearest 100). Unrated problems are not
	// bucketed.
	ProblemsByRating map[int]int `json:"problemsByRating"`

	// RatingHistory is the ordered list of rated contest results. Empty
	// when the account is unrated or the history could not be fetched.
	RatingHistory []ContestResult `json:"ratingHistory"`

	// HeatmapData counts accepted submissions per UTC calendar day,
	// sorted by date.
	HeatmapData []HeatmapEntry `json:"heatmapData"`

	// SolvedProblems is the deduplicated solved set. API responses cap
	// it at 100 entries for payload size; SolvedCount is not affected.
	SolvedProblems []SolvedProblem `json:"solvedProblems"`
}

// SolvedProblem is one distinct problem the user solved, represented by
// the first accepted submission encountered for it.
type SolvedProblem struct {
	// ContestID identifies the contest the problem belongs to. Zero for
	// problems without one (e.g., gym problems).
	ContestID int `json:"contestId,omitempty"`

	// Index is the problem's letter index within its contest ("A", "B1").
	Index string `json:"index"`

	Name string `json:"name"`

	// Rating is the problem difficulty. The zero value serializes as
	// "N/A" since not every problem carries a rating.
	Rating ProblemRating `json:"rating"`

	Tags []string `json:"tags"`

	// SolvedAt is the unix timestamp of the representative accepted
	// submission.
	SolvedAt int64 `json:"solvedAt"`
}

// Key returns the identity used to match problems across users:
// contest id (or a gym marker when absent), index, and name.
func (p SolvedProblem) Key() string {
	cid := "GYM"
	if p.ContestID != 0 {
		cid = strconv.Itoa(p.ContestID)
	}
	return cid + "-" + p.Index + "-" + p.Name
}

// ProblemRating is a problem difficulty rating. The zero value stands
// for "no rating available" and serializes as the string "N/A".
type ProblemRating int

func (r ProblemRating) MarshalJSON() ([]byte, error) {
	if r == 0 {
		return []byte(`"N/A"`), nil
	}
	return []byte(strconv.Itoa(int(r))), nil
}

func (r *ProblemRating) UnmarshalJSON(data []byte) error {
	if string(data) == `"N/A"` || string(data) == "null" {
		*r = 0
		return nil
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return err
	}
	*r = ProblemRating(v)
	return nil
}

// SubmissionStats is the verdict breakdown over a user's complete
// submission history. Unlike the solved set, repeated submissions of the
// same problem all count.
type SubmissionStats struct {
	Total             int `json:"total"`
	Accepted          int `json:"accepted"`
	WrongAnswer       int `json:"wrongAnswer"`
	TimeLimitExceeded int `json:"timeLimitExceeded"`
	RuntimeError      int `json:"runtimeError"`
	CompilationError  int `json:"compilationError"`

	// Other collects every verdict string not covered above.
	Other int `json:"other"`
}

// ContestResult is one entry of a user's rating history, matching the
// Codeforces user.rating result shape.
type ContestResult struct {
	ContestID               int    `json:"contestId"`
	ContestName             string `json:"contestName"`
	Rank                    int    `json:"rank"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
}

// HeatmapEntry counts accepted submissions on one UTC calendar day.
type HeatmapEntry struct {
	// Date is the calendar day in YYYY-MM-DD form.
	Date string `json:"date"`

	Count int `json:"count"`
}

// UserSummary is the lightweight per-user view used by the basic-info
// endpoint, team member validation, and leaderboards. It costs two
// upstream calls instead of three and skips the heavy derived data.
type UserSummary struct {
	Username     string `json:"username"`
	Rating       int    `json:"rating"`
	MaxRating    int    `json:"maxRating"`
	Rank         string `json:"rank"`
	MaxRank      string `json:"maxRank"`
	Country      string `json:"country"`
	Organization string `json:"organization"`
	SolvedCount  int    `json:"solvedCount"`
	Avatar       string `json:"avatar"`
	Contribution int    `json:"contribution"`
}
