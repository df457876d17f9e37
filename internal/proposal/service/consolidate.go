package service

import (
	"strings"
	"time"

	"rfp-service/internal/matching"
	"rfp-service/internal/pricing"
	"rfp-service/internal/proposal/model"
)

const notAvailable = "N/A"

// Consolidator merges opportunity, match results and pricing into a
// Proposal. It copies every slice, so later changes to its inputs never
// reach a returned Proposal.
type Consolidator struct {
	now func() time.Time
}

func NewConsolidator(now func() time.Time) *Consolidator {
	if now == nil {
		now = time.Now
	}
	return &Consolidator{now: now}
}

func (c *Consolidator) Consolidate(opp model.Opportunity, recs []model.Recommendation, sum pricing.Summary) model.Proposal {
	return model.Proposal{
		RFPID:             orNA(opp.ID),
		ProjectName:       orNA(opp.Title),
		ClientName:        orNA(opp.Client),
		DueDate:           orNA(opp.DueDate),
		StrategicFitScore: opp.FitScore,
		RFPValue:          orNA(opp.Value),
		Recommendations:   copyRecommendations(recs),
		Pricing:           copySummary(sum),
		Status:            model.StatusReady,
		GeneratedAt:       c.now(),
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func copyRecommendations(recs []model.Recommendation) []model.Recommendation {
	out := make([]model.Recommendation, len(recs))
	for i, r := range recs {
		r.Requirement = copyRequirement(r.Requirement)
		matches := make([]matching.Candidate, len(r.Matches))
		for j, m := range r.Matches {
			m.Explanation = append(matching.Explanation(nil), m.Explanation...)
			matches[j] = m
		}
		r.Matches = matches
		out[i] = r
	}
	return out
}

func copyRequirement(r matching.Requirement) matching.Requirement {
	r.VoltageKV = clonePtr(r.VoltageKV)
	r.ConductorSizeMM2 = clonePtr(r.ConductorSizeMM2)
	r.Material = clonePtr(r.Material)
	r.Insulation = clonePtr(r.Insulation)
	r.CoreCount = clonePtr(r.CoreCount)
	return r
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copySummary(s pricing.Summary) pricing.Summary {
	s.Lines = append(make([]pricing.Line, 0, len(s.Lines)), s.Lines...)
	s.Tests = append(make([]pricing.TestFee, 0, len(s.Tests)), s.Tests...)
	return s
}
