package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"rfp-service/internal/catalog"
	"rfp-service/internal/matching"
	"rfp-service/internal/observability"
	"rfp-service/internal/pricing"
	"rfp-service/internal/proposal/model"
)

// DefaultTopK is the shortlist length when a request does not set one.
const DefaultTopK = 3

// Request is one proposal run: the opportunity plus the extracted scope.
type Request struct {
	Opportunity  model.Opportunity      `json:"opportunity"`
	Requirements []matching.Requirement `json:"requirements"`
	TopK         int                    `json:"top_k,omitempty"`
}

// Service runs the match -> select -> price -> consolidate pipeline over
// one catalog and test-fee snapshot.
type Service struct {
	catalog      *catalog.Store
	schedule     *pricing.Schedule
	engine       *matching.Engine
	pricer       *pricing.Aggregator
	consolidator *Consolidator
	topK         int
	log          zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithEngine(e *matching.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.consolidator = NewConsolidator(now) }
}

func WithTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.topK = k
		}
	}
}

func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }

func New(store *catalog.Store, sched *pricing.Schedule, opts ...Option) *Service {
	s := &Service{
		catalog:      store,
		schedule:     sched,
		engine:       matching.NewEngine(),
		pricer:       pricing.NewAggregator(store),
		consolidator: NewConsolidator(nil),
		topK:         DefaultTopK,
		log:          zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Catalog exposes the snapshot for read-only endpoints.
func (s *Service) Catalog() *catalog.Store { return s.catalog }

func (s *Service) k(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.topK
}

// Match ranks the catalog for every requirement. Result i belongs to
// reqs[i].
func (s *Service) Match(ctx context.Context, reqs []matching.Requirement, topK int) ([][]matching.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := matching.ValidateAll(reqs); err != nil {
		return nil, err
	}
	start := time.Now()
	ranked := s.engine.RankAll(reqs, s.catalog.All(), s.k(topK))
	observability.ObserveRank(len(reqs), start)
	return ranked, nil
}

// Run builds a full proposal. An unknown SKU at pricing time aborts the run.
func (s *Service) Run(ctx context.Context, req Request) (model.Proposal, error) {
	ranked, err := s.Match(ctx, req.Requirements, req.TopK)
	if err != nil {
		return model.Proposal{}, err
	}

	recs := make([]model.Recommendation, len(req.Requirements))
	selections := make([]pricing.Selection, 0, len(req.Requirements))
	for i, r := range req.Requirements {
		recs[i] = model.Recommendation{
			Product:     r.Name,
			Requirement: r,
			Matches:     ranked[i],
		}
		sel, ok := pricing.Select(r, ranked[i])
		if !ok {
			s.log.Warn().Str("product", r.Name).Msg("no catalog candidates; line left unpriced")
			continue
		}
		recs[i].SelectedSKU = sel.SKU
		recs[i].SelectedScore = ranked[i][0].Score
		selections = append(selections, sel)

		s.log.Debug().
			Str("product", r.Name).
			Str("sku", sel.SKU).
			Float64("score", ranked[i][0].Score).
			Int("candidates", len(ranked[i])).
			Msg("selected")
	}

	sum, err := s.pricer.Compute(selections, s.schedule)
	if err != nil {
		reason := "other"
		if errors.Is(err, pricing.ErrUnknownSKU) {
			reason = "unknown_sku"
		}
		observability.PricingFailures.WithLabelValues(reason).Inc()
		return model.Proposal{}, fmt.Errorf("pricing: %w", err)
	}

	p := s.consolidator.Consolidate(req.Opportunity, recs, sum)
	observability.ProposalsBuilt.Inc()

	s.log.Info().
		Str("rfp_id", p.RFPID).
		Int("requirements", len(req.Requirements)).
		Str("material_cost", sum.MaterialCost.String()).
		Str("test_cost", sum.TestCost.String()).
		Str("grand_total", sum.GrandTotal.String()).
		Msg("proposal built")
	return p, nil
}

// WriteJSON writes p to path. The file is closed on every path and a
// failed close is reported.
func WriteJSON(path string, p model.Proposal) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
