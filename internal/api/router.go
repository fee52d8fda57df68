package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/soaringjerry/npspulse/internal/middleware"
	"github.com/soaringjerry/npspulse/internal/models"
	"github.com/soaringjerry/npspulse/internal/services"
	"github.com/soaringjerry/npspulse/internal/utils"
)

const maxBodyBytes = 64 << 10

type Router struct {
	responses *services.ResponseService
	reports   *services.ReportService
	analytics *services.AnalyticsService
	exports   *services.ExportService
	links     *middleware.ExportLinks
	log       *slog.Logger
}

func NewRouter(store services.ResponseStore, links *middleware.ExportLinks, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		responses: services.NewResponseService(store, log),
		reports:   services.NewReportService(store),
		analytics: services.NewAnalyticsService(store),
		exports:   services.NewExportService(store),
		links:     links,
		log:       log,
	}
}

// Register mounts the NPS API under /api.
func (rt *Router) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/responses", rt.handleSubmit)
		r.Get("/responses", rt.handleList)
		r.Get("/nps", rt.handleNPS)
		r.Get("/insights", rt.handleInsights)
		r.Get("/insights/table", rt.handleInsightTable)
		r.Get("/export", rt.handleExport)
		r.Post("/export/link", rt.handleExportLink)
		r.With(middleware.RequireExportLink(rt.links, rt.rejectLink)).Get("/export/download", rt.handleExport)
	})
}

type submitRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Score    *int   `json:"score"`
	Feedback string `json:"feedback"`
}

// POST /api/responses
func (rt *Router) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		rt.writeMessage(w, r, http.StatusBadRequest, "error.bad_request")
		return
	}
	if req.Score == nil {
		rt.writeError(w, r, services.ErrInvalidScore)
		return
	}
	stored, err := rt.responses.Submit(r.Context(), services.SubmitRequest{
		Name:     req.Name,
		Email:    req.Email,
		Score:    *req.Score,
		Feedback: req.Feedback,
	})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":       true,
		"response": stored,
		"message":  utils.T(middleware.LocaleFromContext(r.Context()), "submit.thanks"),
	})
}

// GET /api/responses
func (rt *Router) handleList(w http.ResponseWriter, r *http.Request) {
	rs, err := rt.responses.List(r.Context())
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if len(rs) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"has_data": false, "responses": []models.SurveyResponse{}, "message": rt.noData(r)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"has_data": true, "responses": rs})
}

// GET /api/nps
func (rt *Router) handleNPS(w http.ResponseWriter, r *http.Request) {
	summary, err := rt.analytics.Summary(r.Context())
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if !summary.HasData {
		writeJSON(w, http.StatusOK, map[string]any{"has_data": false, "message": rt.noData(r)})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GET /api/insights
func (rt *Router) handleInsights(w http.ResponseWriter, r *http.Request) {
	rep, err := rt.reports.Report(r.Context())
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if !rep.HasData {
		writeJSON(w, http.StatusOK, map[string]any{"has_data": false, "message": rt.noData(r)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"has_data":        true,
		"nps":             rep.NPS,
		"counts":          rep.Counts,
		"interpretation":  rep.Insight.Interpretation,
		"score_range":     rep.Insight.ScoreRange,
		"recommendations": rep.Insight.Recommendations,
	})
}

// GET /api/insights/table
func (rt *Router) handleInsightTable(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"insights": services.Insights()})
}

// GET /api/export and GET /api/export/download?token=...
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	res, err := rt.exports.ExportCSV(r.Context())
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+res.Filename)
	_, _ = w.Write(res.Data)
}

// POST /api/export/link
func (rt *Router) handleExportLink(w http.ResponseWriter, r *http.Request) {
	tok, exp, err := rt.links.Sign()
	if err != nil {
		rt.rejectLink(w, r, err)
		return
	}
	u := url.URL{Path: "/api/export/download", RawQuery: url.Values{"token": {tok}}.Encode()}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":        u.String(),
		"expires_at": exp.UTC().Format(time.RFC3339),
	})
}

func (rt *Router) rejectLink(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, middleware.ErrLinksDisabled) {
		rt.writeMessage(w, r, http.StatusNotFound, "export.link_disabled")
		return
	}
	rt.writeMessage(w, r, http.StatusForbidden, "export.link_invalid")
}

func (rt *Router) noData(r *http.Request) string {
	return utils.T(middleware.LocaleFromContext(r.Context()), "report.no_data")
}

// writeError turns service errors into localized messages; internals only go to the log.
func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch services.KindOf(err) {
	case services.KindInvalid:
		key := "submit.score"
		if errors.Is(err, services.ErrMissingContact) {
			key = "submit.contact"
		}
		rt.writeMessage(w, r, http.StatusBadRequest, key)
	case services.KindStorage:
		rt.log.Error("storage failure", "request_id", middleware.RequestIDFromContext(r.Context()), "path", r.URL.Path, "err", err)
		rt.writeMessage(w, r, http.StatusInternalServerError, "error.storage")
	default:
		rt.log.Error("request failed", "request_id", middleware.RequestIDFromContext(r.Context()), "path", r.URL.Path, "err", err)
		rt.writeMessage(w, r, http.StatusInternalServerError, "error.internal")
	}
}

func (rt *Router) writeMessage(w http.ResponseWriter, r *http.Request, status int, key string) {
	writeJSON(w, status, map[string]any{
		"ok":      false,
		"error":   key,
		"message": utils.T(middleware.LocaleFromContext(r.Context()), key),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
