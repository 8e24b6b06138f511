package codeforces

import "encoding/json"

// Verdict strings the statistics distinguish. Anything else lands in
// the "other" bucket.
const (
	VerdictOK                = "OK"
	VerdictWrongAnswer       = "WRONG_ANSWER"
	VerdictTimeLimitExceeded = "TIME_LIMIT_EXCEEDED"
	VerdictRuntimeError      = "RUNTIME_ERROR"
	VerdictCompilationError  = "COMPILATION_ERROR"
)

// apiResponse is the envelope every Codeforces API method returns.
// Result is only present when Status is "OK"; Comment explains failures.
type apiResponse struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

// UserInfo mirrors one entry of the user.info result.
type UserInfo struct {
	Handle                  string `json:"handle"`
	Rating                  int    `json:"rating"`
	MaxRating               int    `json:"maxRating"`
	Rank                    string `json:"rank"`
	MaxRank                 string `json:"maxRank"`
	Country                 string `json:"country"`
	Organization            string `json:"organization"`
	Avatar                  string `json:"avatar"`
	TitlePhoto              string `json:"titlePhoto"`
	Contribution            int    `json:"contribution"`
	FriendOfCount           int    `json:"friendOfCount"`
	RegistrationTimeSeconds int64  `json:"registrationTimeSeconds"`
}

// Submission is one raw user.status entry. Submissions are never
// persisted; they only feed aggregation.
type Submission struct {
	ID                  int64   `json:"id"`
	CreationTimeSeconds int64   `json:"creationTimeSeconds"`
	Verdict             string  `json:"verdict"`
	Problem             Problem `json:"problem"`
}

// Problem is the problem reference embedded in a submission. ContestID
// is zero for problems outside regular contests (gym).
type Problem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    int      `json:"rating"`
	Tags      []string `json:"tags"`
}
