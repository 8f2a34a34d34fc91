package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mindwellhq/wellness-booking/internal/chat"
	"github.com/mindwellhq/wellness-booking/internal/corporate"
	"github.com/mindwellhq/wellness-booking/internal/resources"
)

func listArticlesHandler(svc *resources.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if v := r.URL.Query().Get("page"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				page = n
			}
		}

		result, err := svc.ListArticles(r.Context(), r.URL.Query().Get("q"), page)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := ArticleListResponse{
			Articles: make([]ArticleResponse, 0, len(result.Articles)),
			Total:    result.Total,
			Page:     result.Page,
			PageSize: result.PageSize,
		}
		for _, a := range result.Articles {
			resp.Articles = append(resp.Articles, toArticleResponse(a, false))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getArticleHandler(svc *resources.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFrom(r.Context())
		article, err := svc.GetArticle(r.Context(), caller.Email, chi.URLParam(r, "slug"))
		if err != nil {
			handleResourceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toArticleResponse(*article, true))
	}
}

func likeArticleHandler(svc *resources.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFrom(r.Context())
		article, err := svc.LikeArticle(r.Context(), caller.Email, chi.URLParam(r, "slug"))
		if err != nil {
			handleResourceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toArticleResponse(*article, false))
	}
}

func listVideosHandler(svc *resources.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videos, err := svc.ListVideos(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]VideoResponse, 0, len(videos))
		for _, v := range videos {
			resp = append(resp, VideoResponse{
				ID:          v.ID,
				Title:       v.Title,
				Slug:        v.Slug,
				Description: v.Description,
				VideoURL:    v.VideoURL,
				CreatedAt:   v.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleResourceError(w http.ResponseWriter, err error) {
	if errors.Is(err, resources.ErrArticleNotFound) || errors.Is(err, resources.ErrVideoNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

func corporateRequestHandler(svc *corporate.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body CorporateRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var preferred time.Time
		if body.PreferredDate != "" {
			t, err := time.Parse("2006-01-02", body.PreferredDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_preferred_date", "preferred_date must be YYYY-MM-DD")
				return
			}
			preferred = t
		}

		saved, err := svc.Submit(r.Context(), corporate.Request{
			CompanyName:       body.CompanyName,
			ContactPerson:     body.ContactPerson,
			Email:             body.Email,
			Phone:             body.Phone,
			ServiceType:       corporate.ServiceType(body.ServiceType),
			NumberOfEmployees: body.NumberOfEmployees,
			PreferredDate:     preferred,
			Message:           body.Message,
		})
		if err != nil {
			switch {
			case errors.Is(err, corporate.ErrValidation):
				writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			case errors.Is(err, corporate.ErrNotifyFailed):
				// The row is saved, but the requested notification did not
				// go out; that is a failure the caller must hear about.
				writeError(w, http.StatusBadGateway, "notification_failed", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{"id": saved.ID})
	}
}

func listCorporateRequestsHandler(svc *corporate.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !CallerFrom(r.Context()).Admin {
			writeError(w, http.StatusForbidden, "forbidden", "operator access required")
			return
		}

		requests, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]CorporateRequestResponse, 0, len(requests))
		for _, req := range requests {
			resp = append(resp, toCorporateRequestResponse(req))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func chatHistoryHandler(svc *chat.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFrom(r.Context())
		if caller.Email == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "identity header missing")
			return
		}

		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		messages, err := svc.History(r.Context(), caller.Email, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]ChatMessageResponse, 0, len(messages))
		for _, m := range messages {
			resp = append(resp, ChatMessageResponse{
				Role:      m.Role,
				Content:   m.Content,
				CreatedAt: m.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func chatHandler(svc *chat.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		caller := CallerFrom(r.Context())
		reply, err := svc.Ask(r.Context(), caller.Email, req.Message)
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrValidation):
				writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			case errors.Is(err, chat.ErrUnavailable):
				writeError(w, http.StatusBadGateway, "chat_unavailable", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
	}
}
