package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mindwellhq/wellness-booking/internal/booking"
	"github.com/mindwellhq/wellness-booking/internal/progress"
)

func dashboardHandler(svc *progress.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFrom(r.Context())
		if caller.Email == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "identity header missing")
			return
		}

		summary, err := svc.Summary(r.Context(), caller.Email)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		upcoming, err := svc.Upcoming(r.Context(), caller.Email)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toDashboardResponse(summary, upcoming))
	}
}

func moodSeriesHandler(svc *progress.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFrom(r.Context())
		if caller.Email == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "identity header missing")
			return
		}

		days := 7
		if v := r.URL.Query().Get("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_days", "days must be 7 or 30")
				return
			}
			days = n
		}

		series, err := svc.MoodSeries(r.Context(), caller.Email, days)
		if err != nil {
			if errors.Is(err, booking.ErrValidation) {
				writeError(w, http.StatusBadRequest, "invalid_days", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, MoodSeriesResponse{Days: days, Series: series})
	}
}

func recordMoodHandler(svc *progress.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFrom(r.Context())
		if caller.Email == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "identity header missing")
			return
		}

		var req MoodRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		entry, err := svc.RecordMood(r.Context(), caller.Email, req.Score, req.Note)
		if err != nil {
			if errors.Is(err, booking.ErrValidation) {
				writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"id":    entry.ID,
			"score": entry.Score,
			"date":  entry.Date.Format("2006-01-02"),
		})
	}
}
