package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"costs/internal/core"
)

type chartResponse struct {
	Currency      core.Currency   `json:"currency"`
	Rows          []core.ChartRow `json:"rows"`
	FallbackRates bool            `json:"fallback_rates"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	path := url.Values{
		"year":  {chi.URLParam(r, "year")},
		"month": {chi.URLParam(r, "month")},
	}
	year, err := RequiredInt(path, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	month, err := RequiredInt(path, "month")
	if err != nil {
		writeError(w, r, err)
		return
	}

	rep, err := s.svc.Report(r.Context(), year, month, ParseTargetCurrency(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(rep).Write(w)
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := RequiredInt(q, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	month, err := RequiredInt(q, "month")
	if err != nil {
		writeError(w, r, err)
		return
	}

	target := ParseTargetCurrency(q)
	rows, fallback, err := s.svc.CategoryChart(r.Context(), year, month, target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeChart(w, target, rows, fallback)
}

func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := RequiredInt(q, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}

	target := ParseTargetCurrency(q)
	rows, fallback, err := s.svc.MonthlyChart(r.Context(), year, target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeChart(w, target, rows, fallback)
}

func writeChart(w http.ResponseWriter, target core.Currency, rows []core.ChartRow, fallback bool) {
	if rows == nil {
		rows = []core.ChartRow{}
	}
	NewJSONResponse().Body(chartResponse{Currency: target, Rows: rows, FallbackRates: fallback}).Write(w)
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	rates, err := s.svc.Rates(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(rates).Write(w)
}
