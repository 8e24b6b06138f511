package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cfteams/apiserver/internal/common"
	"github.com/cfteams/apiserver/internal/services"
)

// TeamHandler provides HTTP handlers for team endpoints.
type TeamHandler struct {
	teams *services.TeamService
}

func NewTeamHandler(teams *services.TeamService) *TeamHandler {
	return &TeamHandler{teams: teams}
}

// TeamRouter registers team routes on the given router.
func TeamRouter(r chi.Router, teams *services.TeamService) {
	handler := NewTeamHandler(teams)

	r.Post("/", handler.CreateTeam)
	r.Get("/", handler.ListTeams)
	r.Route("/{teamID}", func(r chi.Router) {
		r.Get("/", handler.GetTeam)
		r.Get("/leaderboard", handler.GetLeaderboard)
		r.Delete("/", handler.DeleteTeam)
	})
}

// CreateTeamRequest is the team creation payload.
type CreateTeamRequest struct {
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedBy string   `json:"createdBy"`
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, &common.ValidationError{Message: "invalid JSON body"})
		return
	}

	team, err := h.teams.CreateTeam(r.Context(), req.Name, req.Members, req.CreatedBy)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusCreated, team)
}

func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.ListTeams(r.Context())
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, teams)
}

func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.teams.GetTeam(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, team)
}

func (h *TeamHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	leaderboard, err := h.teams.GetLeaderboard(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, leaderboard)
}

func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.teams.DeleteTeam(r.Context(), chi.URLParam(r, "teamID")); err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "team deleted successfully")
}
