package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"rfp-service/internal/catalog"
	"rfp-service/internal/matching"
	"rfp-service/internal/middleware"
	"rfp-service/internal/proposal/service"
)

// MatchRequest is the body of POST /match.
type MatchRequest struct {
	Requirements []matching.Requirement `json:"requirements"`
	TopK         int                    `json:"top_k,omitempty"`
}

// MatchResult is the shortlist for one requirement.
type MatchResult struct {
	Product string               `json:"product_name"`
	Matches []matching.Candidate `json:"matches"`
}

// Match ranks the catalog for every requirement in the body.
func Match(svc *service.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.With().Str("rid", middleware.GetRequestID(r)).Logger()

		var req MatchRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, log, err)
			return
		}
		ranked, err := svc.Match(r.Context(), req.Requirements, req.TopK)
		if err != nil {
			writeError(w, r, log, err)
			return
		}

		out := make([]MatchResult, len(ranked))
		for i, cands := range ranked {
			out[i] = MatchResult{Product: req.Requirements[i].Name, Matches: cands}
		}
		if err := writeJSON(w, http.StatusOK, out); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}
		log.Info().
			Int("requirements", len(req.Requirements)).
			Dur("elapsed", time.Since(start)).
			Msg("match done")
	}
}

// Propose runs the full pipeline and returns the consolidated proposal.
func Propose(svc *service.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.With().Str("rid", middleware.GetRequestID(r)).Logger()

		var req service.Request
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, log, err)
			return
		}
		p, err := svc.Run(r.Context(), req)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		if err := writeJSON(w, http.StatusOK, p); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}
		log.Info().
			Str("rfp_id", p.RFPID).
			Str("grand_total", p.Pricing.GrandTotal.String()).
			Dur("elapsed", time.Since(start)).
			Msg("proposal done")
	}
}

type catalogPage struct {
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Items  []catalog.Item `json:"items"`
}

// ListCatalog pages through the catalog in load order.
func ListCatalog(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := svc.Catalog().All()
		offset := max(0, atoi(r.URL.Query().Get("offset"), 0))
		limit := atoi(r.URL.Query().Get("limit"), 100)
		if limit <= 0 {
			limit = 100
		}
		offset = min(offset, len(items))
		end := min(offset+limit, len(items))
		_ = writeJSON(w, http.StatusOK, catalogPage{Total: len(items), Offset: offset, Items: items[offset:end]})
	}
}

// GetCatalogItem returns one item, or 404 with look-alike SKUs.
func GetCatalogItem(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sku := chi.URLParam(r, "sku")
		it, ok := svc.Catalog().FindByID(sku)
		if !ok {
			_ = writeJSON(w, http.StatusNotFound, errorBody{
				Error:       "sku not found: " + sku,
				Suggestions: svc.Catalog().Suggest(sku, 5),
			})
			return
		}
		_ = writeJSON(w, http.StatusOK, it)
	}
}
