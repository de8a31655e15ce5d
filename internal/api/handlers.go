package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"salesdash/internal/analytics"
	"salesdash/internal/logger"
	"salesdash/internal/normalize"
	"salesdash/internal/segmentation"
	"salesdash/internal/timeseries"
	"salesdash/pkg/services"
)

const (
	codeBadRequest     = "bad_request"
	codeDatasetMissing = "dataset_missing"
	codeInternal       = "internal"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) kpis(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.KPIs(r.Context(), q)
	s.respond(w, r, res, err)
}

func (s *Server) timeSeries(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	g, err := timeseries.ParseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		s.fail(w, r, badRequest(err))
		return
	}
	res, err := s.svc.TimeSeries(r.Context(), q, g)
	s.respond(w, r, res, err)
}

func (s *Server) reconciliation(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.Reconciliation(r.Context(), q)
	s.respond(w, r, res, err)
}

func (s *Server) segmentation(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := parseSegmentation(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.Segmentation(r.Context(), q, opts)
	s.respond(w, r, res, err)
}

func (s *Server) activity(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.Activity(r.Context(), q)
	s.respond(w, r, res, err)
}

func (s *Server) filters(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Filters(r.Context())
	s.respond(w, r, res, err)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, payload any, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	log := logger.FromContext(r.Context(), "api")
	log.WithLevel(levelFor(status)).Err(err).Str("code", code).Msg("Request failed")

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeError(w, status, code, msg)
}

func classify(err error) (int, string) {
	switch {
	case normalize.IsDatasetMissing(err):
		return http.StatusNotFound, codeDatasetMissing
	case errors.Is(err, analytics.ErrInvalidQuery):
		return http.StatusBadRequest, codeBadRequest
	}
	return http.StatusInternalServerError, codeInternal
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %w", analytics.ErrInvalidQuery, err)
}

func parseQuery(r *http.Request) (services.Query, error) {
	v := r.URL.Query()
	q := services.Query{
		Store: strings.TrimSpace(v.Get("store")),
		Line:  strings.TrimSpace(v.Get("line")),
	}

	var err error
	if q.Start, err = parseDate(v.Get("start")); err != nil {
		return q, badRequest(fmt.Errorf("start: %w", err))
	}
	if q.End, err = parseDate(v.Get("end")); err != nil {
		return q, badRequest(fmt.Errorf("end: %w", err))
	}
	return q, nil
}

func parseDate(raw string) (civil.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return civil.Date{}, nil
	}
	return civil.ParseDate(raw)
}

func parseSegmentation(r *http.Request) (segmentation.Options, error) {
	v := r.URL.Query()
	metric, err := segmentation.ParseMetric(v.Get("metric"))
	if err != nil {
		return segmentation.Options{}, badRequest(err)
	}
	opts := segmentation.Options{Metric: metric}

	if raw := v.Get("top"); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil {
			return opts, badRequest(fmt.Errorf("top: %w", err))
		}
		opts.TopN = top
	}
	if raw := v.Get("asc"); raw != "" {
		asc, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, badRequest(fmt.Errorf("asc: %w", err))
		}
		opts.Ascending = asc
	}
	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}
