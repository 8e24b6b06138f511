package types

// ComparisonResult is the payload of the profile comparison endpoint.
type ComparisonResult struct {
	User1      ComparedUser `json:"user1"`
	User2      ComparedUser `json:"user2"`
	Comparison Comparison   `json:"comparison"`
}

// ComparedUser is the trimmed per-user summary included alongside a
// comparison.
type ComparedUser struct {
	Username    string `json:"username"`
	Rating      int    `json:"rating"`
	MaxRating   int    `json:"maxRating"`
	Rank        string `json:"rank"`
	SolvedCount int    `json:"solvedCount"`
}

// Comparison holds the derived set differences and merged distributions
// for a pair of profiles.
type Comparison struct {
	// CommonProblems are problems solved by both users, matched by the
	// (contest id or gym marker, index, name) key.
	CommonProblems []SolvedProblem `json:"commonProblems"`

	// User1Unique / User2Unique are problems solved by exactly one user.
	User1Unique []SolvedProblem `json:"user1Unique"`
	User2Unique []SolvedProblem `json:"user2Unique"`

	// TagDistributionComparison covers the union of tags seen by either
	// user, sorted by combined count descending, then tag name.
	TagDistributionComparison []TagDistribution `json:"tagDistributionComparison"`

	RatingComparison RatingComparison `json:"ratingComparison"`
}

// TagDistribution pairs both users' solved counts for one tag.
type TagDistribution struct {
	Tag   string `json:"tag"`
	User1 int    `json:"user1"`
	User2 int    `json:"user2"`
}

// RatingComparison holds the four scalar rating fields, zero when a
// user is unrated.
type RatingComparison struct {
	User1    int `json:"user1"`
	User2    int `json:"user2"`
	MaxUser1 int `json:"maxUser1"`
	MaxUser2 int `json:"maxUser2"`
}
