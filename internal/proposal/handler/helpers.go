package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"rfp-service/internal/fileio"
	"rfp-service/internal/matching"
	"rfp-service/internal/middleware"
	"rfp-service/internal/pricing"
)

type errorBody struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeError maps domain errors onto status codes:
// bad input 400, oversized body 413, data or lookup failures 422,
// anything else 500.
func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	status := http.StatusInternalServerError
	body := errorBody{Error: err.Error()}

	var le *pricing.LookupError
	switch {
	case errors.As(err, &le):
		status = http.StatusUnprocessableEntity
		body.Suggestions = le.Suggestions
	case errors.Is(err, errBodyTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, matching.ErrInvalidRequirement):
		status = http.StatusBadRequest
	case errors.Is(err, errBadBody):
		status = http.StatusBadRequest
	case isDataError(err):
		status = http.StatusUnprocessableEntity
	}

	ev := log.Warn()
	if status >= 500 {
		ev = log.Error()
	}
	ev.Err(err).Str("rid", middleware.GetRequestID(r)).Int("status", status).Msg("request failed")

	_ = writeJSON(w, status, body)
}

func isDataError(err error) bool {
	var de *fileio.DataError
	return errors.As(err, &de)
}

var (
	errBadBody      = errors.New("bad request body")
	errBodyTooLarge = errors.New("request body too large")
)

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, mbe.Limit)
		}
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: trailing data after JSON object", errBadBody)
	}
	return nil
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
