package handlers

import (
	"net/http"
	"time"

	"github.com/cfteams/apiserver/internal/common"
)

// Health reports service liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
