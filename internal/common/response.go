package common

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Response is the uniform JSON envelope. Successful responses carry
// Data or Message; failures carry Error or Message plus the optional
// validation context.
type Response struct {
	Success        bool         `json:"success"`
	Data           any          `json:"data,omitempty"`
	Message        string       `json:"message,omitempty"`
	Error          string       `json:"error,omitempty"`
	Details        []FieldError `json:"details,omitempty"`
	InvalidMembers []string     `json:"invalidMembers,omitempty"`
}

func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithData writes a success envelope wrapping data.
func RespondWithData(w http.ResponseWriter, code int, data any) {
	RespondWithJSON(w, code, Response{Success: true, Data: data})
}

// RespondWithMessage writes a success envelope with a message only.
func RespondWithMessage(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Response{Success: true, Message: message})
}

// RespondWithError maps err to a status code and writes the failure
// envelope. Validation errors expose their message plus details or
// invalidMembers; everything else goes out under "error".
func RespondWithError(w http.ResponseWriter, err error) {
	code := HTTPStatusFromError(err)

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		RespondWithJSON(w, code, Response{
			Success:        false,
			Message:        vErr.Message,
			Details:        vErr.Details,
			InvalidMembers: vErr.InvalidMembers,
		})
		return
	}

	RespondWithJSON(w, code, Response{Success: false, Error: err.Error()})
}
