package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"try-scout/tryplot"
)

const (
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidID          = "invalid_id"
	codeSessionNotFound    = "session_not_found"
	codeArchiveNotFound    = "archive_not_found"
	codeTryNotFound        = "try_not_found"
	codeUnknownTryType     = "unknown_try_type"
	codeUnknownTeam        = "unknown_team"
	codeUnknownPhase       = "unknown_phase"
	codeInvalidQuarter     = "invalid_quarter"
	codeInvalidTry         = "invalid_try"
	codeNoTypeSelected     = "no_type_selected"
	codeNotPlacing         = "not_placing"
	codeNotEditing         = "not_editing"
	codeNoSurface          = "no_surface"
	codeBusy               = "interaction_in_progress"
	codeEditIncomplete     = "edit_incomplete"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorMapping pairs a domain error with the response it produces.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{tryplot.ErrUnknownTryType, http.StatusBadRequest, codeUnknownTryType},
	{tryplot.ErrUnknownTeam, http.StatusBadRequest, codeUnknownTeam},
	{tryplot.ErrUnknownPhase, http.StatusBadRequest, codeUnknownPhase},
	{tryplot.ErrInvalidQuarter, http.StatusBadRequest, codeInvalidQuarter},
	{tryplot.ErrUnknownZone, http.StatusBadRequest, codeInvalidTry},
	{tryplot.ErrMissingID, http.StatusBadRequest, codeInvalidTry},
	{tryplot.ErrZoneMismatch, http.StatusBadRequest, codeInvalidTry},
	{tryplot.ErrDuplicateID, http.StatusBadRequest, codeInvalidTry},
	{tryplot.ErrTryNotFound, http.StatusNotFound, codeTryNotFound},
	{ErrArchiveNotFound, http.StatusNotFound, codeArchiveNotFound},
	{tryplot.ErrNoTypeSelected, http.StatusConflict, codeNoTypeSelected},
	{tryplot.ErrNotPlacing, http.StatusConflict, codeNotPlacing},
	{tryplot.ErrNotEditing, http.StatusConflict, codeNotEditing},
	{tryplot.ErrNoSurface, http.StatusConflict, codeNoSurface},
	{tryplot.ErrBusy, http.StatusConflict, codeBusy},
	{tryplot.ErrEditIncomplete, http.StatusConflict, codeEditIncomplete},
}

// writeDomainError maps known errors to client responses; anything else is
// logged and reported as an internal error.
func writeDomainError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, m.err.Error())
			return
		}
	}
	logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
