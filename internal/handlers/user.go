package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cfteams/apiserver/internal/common"
	"github.com/cfteams/apiserver/internal/services"
	"github.com/cfteams/apiserver/types"
)

// maxSolvedInProfile caps the solved-problem list embedded in a profile
// response. The solvedCount field always reflects the full set.
const maxSolvedInProfile = 100

// UserHandler provides HTTP handlers for profile endpoints.
type UserHandler struct {
	profiles  *services.ProfileService
	compare   *services.CompareService
	summaries services.SummaryFetcher
}

func NewUserHandler(profiles *services.ProfileService, compare *services.CompareService, summaries services.SummaryFetcher) *UserHandler {
	return &UserHandler{profiles: profiles, compare: compare, summaries: summaries}
}

// UserRouter registers profile routes on the given router.
func UserRouter(r chi.Router, profiles *services.ProfileService, compare *services.CompareService, summaries services.SummaryFetcher) {
	handler := NewUserHandler(profiles, compare, summaries)

	r.Route("/user/{username}", func(r chi.Router) {
		r.Get("/", handler.GetProfile)
		r.Get("/info", handler.GetInfo)
		r.Get("/solved", handler.GetSolved)
	})
	r.Post("/compare", handler.Compare)
}

// GetProfile returns the full aggregated profile for a handle.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.profiles.GetUserProfile(r.Context(), username)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}

	if len(profile.SolvedProblems) > maxSolvedInProfile {
		profile.SolvedProblems = profile.SolvedProblems[:maxSolvedInProfile]
	}
	common.RespondWithData(w, http.StatusOK, profile)
}

// GetInfo returns the basic info subset for a handle.
func (h *UserHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	summary, err := h.summaries.UserSummary(r.Context(), username)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, summary)
}

// SolvedResponse is the paginated solved-problem slice payload.
type SolvedResponse struct {
	Total    int                   `json:"total"`
	Limit    int                   `json:"limit"`
	Offset   int                   `json:"offset"`
	Problems []types.SolvedProblem `json:"problems"`
}

// GetSolved returns a slice of the full deduplicated solved list.
func (h *UserHandler) GetSolved(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	limit, offset, err := parseLimitOffset(r)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}

	profile, err := h.profiles.GetUserProfile(r.Context(), username)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}

	problems := profile.SolvedProblems
	total := len(problems)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	common.RespondWithData(w, http.StatusOK, SolvedResponse{
		Total:    total,
		Limit:    limit,
		Offset:   offset,
		Problems: problems[offset:end],
	})
}

// CompareRequest is the profile comparison payload.
type CompareRequest struct {
	User1 string `json:"user1"`
	User2 string `json:"user2"`
}

// Compare validates both handles and returns the comparison result.
func (h *UserHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, &common.ValidationError{Message: "invalid JSON body"})
		return
	}

	result, err := h.compare.Compare(r.Context(), req.User1, req.User2)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, result)
}
