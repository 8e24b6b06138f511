package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cfteams/apiserver/internal/common"
)

const (
	defaultSolvedLimit = 50
	maxSolvedLimit     = 100
)

func parseLimitOffset(r *http.Request) (limit, offset int, err error) {
	limit = defaultSolvedLimit

	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, &common.ValidationError{Message: "invalid limit"}
		}
	}
	if limit > maxSolvedLimit {
		limit = maxSolvedLimit
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("offset")); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, &common.ValidationError{Message: "invalid offset"}
		}
	}

	return limit, offset, nil
}
