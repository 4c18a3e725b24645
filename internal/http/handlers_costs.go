package http

import (
	"net/http"

	"costs/internal/core"
	applog "costs/internal/log"
)

func (s *Server) handleAddCost(w http.ResponseWriter, r *http.Request) {
	item, err := ParseCostRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	stored, err := s.svc.AddCost(r.Context(), item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Cost created",
		applog.FieldCategory, stored.Category,
		applog.FieldCurrency, stored.Currency)
	NewJSONResponse().Status(http.StatusCreated).Body(stored).Write(w)
}

func (s *Server) handleListCosts(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var costs []core.Cost
	switch {
	case p.Year != 0 && p.Month != 0:
		costs, err = s.svc.CostsByYearMonth(r.Context(), p.Year, p.Month)
	case p.Year != 0:
		costs, err = s.svc.CostsByYear(r.Context(), p.Year)
	default:
		costs, err = s.svc.AllCosts(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if costs == nil {
		costs = []core.Cost{}
	}
	NewJSONResponse().Body(costs).Write(w)
}

type metaResponse struct {
	Currencies []core.Currency `json:"currencies"`
	Categories []core.Category `json:"categories"`
}

func handleMeta(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().
		Header("Cache-Control", "public, max-age=3600").
		Body(metaResponse{Currencies: core.Currencies(), Categories: core.Categories()}).
		Write(w)
}
