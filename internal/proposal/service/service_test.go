package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfp-service/internal/catalog"
	"rfp-service/internal/matching"
	"rfp-service/internal/pricing"
	"rfp-service/internal/proposal/model"
)

var fixedNow = time.Date(2025, 12, 1, 10, 30, 0, 0, time.UTC)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }
func iptr(v int) *int         { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	s, err := catalog.New([]catalog.Item{
		{SKU: "CU-PVC-4C-240", VoltageKV: 1.1, ConductorSizeMM2: 240, Material: "Copper", Insulation: "PVC", CoreCount: 4, Certified: true, UnitPrice: dec("400"), LeadTimeDays: 10},
		{SKU: "CU-XLPE-4C-240", VoltageKV: 1.1, ConductorSizeMM2: 240, Material: "Copper", Insulation: "XLPE", CoreCount: 4, Certified: true, UnitPrice: dec("450"), LeadTimeDays: 14},
		{SKU: "CU-XLPE-3C-185", VoltageKV: 0.6, ConductorSizeMM2: 185, Material: "Copper", Insulation: "XLPE", CoreCount: 3, Certified: true, UnitPrice: dec("320"), LeadTimeDays: 12},
		{SKU: "CU-PVC-2C-50", VoltageKV: 0.4, ConductorSizeMM2: 50, Material: "Copper", Insulation: "PVC", CoreCount: 2, Certified: false, UnitPrice: dec("95"), LeadTimeDays: 7},
	})
	require.NoError(t, err)
	return s
}

func testSchedule() *pricing.Schedule {
	return pricing.NewSchedule([]pricing.TestFee{
		{Type: "Routine Test", Mandatory: true, UnitCost: dec("5000")},
		{Type: "Type Test", Mandatory: false, UnitCost: dec("25000")},
		{Type: "Acceptance Test", Mandatory: true, UnitCost: dec("8000")},
	})
}

func testRequest() Request {
	return Request{
		Opportunity: model.Opportunity{
			ID:       "NHAI/2025/12345",
			Title:    "Four Laning of NH-44 Bengaluru-Chennai",
			Client:   "National Highway Authority of India",
			DueDate:  "2025-12-30",
			FitScore: 95,
			Value:    "₹15 Cr",
		},
		Requirements: []matching.Requirement{
			{Name: "1.1kV Cable 240mm²", Quantity: dec("1000"), VoltageKV: fptr(1.1), ConductorSizeMM2: fptr(240), Material: sptr("Copper"), Insulation: sptr("XLPE"), CoreCount: iptr(4)},
			{Name: "0.6kV Cable 185mm²", Quantity: dec("500"), VoltageKV: fptr(0.6), ConductorSizeMM2: fptr(185), Material: sptr("Copper"), Insulation: sptr("XLPE"), CoreCount: iptr(3)},
		},
	}
}

func newService(t *testing.T, store *catalog.Store) *Service {
	return New(store, testSchedule(), WithClock(func() time.Time { return fixedNow }))
}

func TestRun_BuildsProposal(t *testing.T) {
	p, err := newService(t, testStore(t)).Run(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "NHAI/2025/12345", p.RFPID)
	assert.Equal(t, "National Highway Authority of India", p.ClientName)
	assert.Equal(t, 95.0, p.StrategicFitScore)
	assert.Equal(t, model.StatusReady, p.Status)
	assert.Equal(t, fixedNow, p.GeneratedAt)

	require.Len(t, p.Recommendations, 2)
	first := p.Recommendations[0]
	assert.Equal(t, "CU-XLPE-4C-240", first.SelectedSKU)
	assert.Equal(t, 100.0, first.SelectedScore)
	// full shortlist survives, not only the winner
	require.Len(t, first.Matches, DefaultTopK)
	assert.Equal(t, "CU-PVC-4C-240", first.Matches[1].SKU)
	assert.Equal(t, 90.0, first.Matches[1].Score)

	assert.Equal(t, "CU-XLPE-3C-185", p.Recommendations[1].SelectedSKU)

	// 450*1000 + 320*500
	assert.True(t, p.Pricing.MaterialCost.Equal(dec("610000")))
	assert.True(t, p.Pricing.TestCost.Equal(dec("13000")))
	assert.True(t, p.Pricing.GrandTotal.Equal(dec("623000")))
	require.Len(t, p.Pricing.Lines, 2)
}

func TestRun_TopKOverride(t *testing.T) {
	req := testRequest()
	req.TopK = 10
	p, err := newService(t, testStore(t)).Run(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, p.Recommendations[0].Matches, 4)
}

func TestRun_EmptyCatalog(t *testing.T) {
	empty, err := catalog.New(nil)
	require.NoError(t, err)

	p, err := newService(t, empty).Run(context.Background(), testRequest())
	require.NoError(t, err)
	for _, r := range p.Recommendations {
		assert.Empty(t, r.Matches)
		assert.Empty(t, r.SelectedSKU)
	}
	assert.True(t, p.Pricing.MaterialCost.IsZero())
	assert.True(t, p.Pricing.GrandTotal.Equal(dec("13000")))
}

func TestRun_EmptyRequirements(t *testing.T) {
	req := testRequest()
	req.Requirements = nil

	p, err := newService(t, testStore(t)).Run(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, p.Recommendations)
	assert.True(t, p.Pricing.MaterialCost.IsZero())
	assert.True(t, p.Pricing.TestCost.Equal(dec("13000")))
	assert.True(t, p.Pricing.GrandTotal.Equal(dec("13000")))
}

func TestRun_InvalidRequirement(t *testing.T) {
	req := testRequest()
	req.Requirements[1].Quantity = dec("-1")

	_, err := newService(t, testStore(t)).Run(context.Background(), req)
	assert.ErrorIs(t, err, matching.ErrInvalidRequirement)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newService(t, testStore(t)).Run(ctx, testRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

// skuRewriter hands pricing a SKU the catalog does not carry.
type skuRewriter struct{ *catalog.Store }

func (skuRewriter) FindByID(string) (catalog.Item, bool) { return catalog.Item{}, false }

func TestRun_UnknownSKUAbortsPricing(t *testing.T) {
	s := newService(t, testStore(t))
	s.pricer = pricing.NewAggregator(skuRewriter{s.catalog})

	_, err := s.Run(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, pricing.ErrUnknownSKU)
}

func TestConsolidate_DefaultsAndIsolation(t *testing.T) {
	c := NewConsolidator(func() time.Time { return fixedNow })

	recs := []model.Recommendation{{
		Product:     "line",
		Requirement: matching.Requirement{Name: "line", Material: sptr("Copper")},
		Matches: []matching.Candidate{{
			Rank: 1, SKU: "A", Score: 100,
			Explanation: matching.Explanation{{Field: matching.FieldMaterial, Matched: true}},
		}},
		SelectedSKU: "A",
	}}
	sum := pricing.Summary{Lines: []pricing.Line{{SKU: "A"}}}

	p := c.Consolidate(model.Opportunity{}, recs, sum)
	assert.Equal(t, "N/A", p.RFPID)
	assert.Equal(t, "N/A", p.ProjectName)
	assert.Equal(t, "N/A", p.DueDate)

	recs[0].Matches[0].SKU = "B"
	recs[0].Matches[0].Explanation[0].Matched = false
	*recs[0].Requirement.Material = "Aluminium"
	sum.Lines[0].SKU = "B"

	assert.Equal(t, "A", p.Recommendations[0].Matches[0].SKU)
	assert.True(t, p.Recommendations[0].Matches[0].Explanation[0].Matched)
	assert.Equal(t, "Copper", *p.Recommendations[0].Requirement.Material)
	assert.Equal(t, "A", p.Pricing.Lines[0].SKU)
}

func TestWriteJSON_StableFieldPaths(t *testing.T) {
	p, err := newService(t, testStore(t)).Run(context.Background(), testRequest())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "rfp_response.json")
	require.NoError(t, WriteJSON(path, p))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	for _, k := range []string{"rfp_id", "project_name", "client_name", "due_date", "strategic_fit_score", "rfp_value", "technical_recommendations", "pricing_summary", "status", "generated_at"} {
		assert.Contains(t, doc, k)
	}

	ps := doc["pricing_summary"].(map[string]any)
	assert.Equal(t, "623000", ps["grand_total"])
	assert.Contains(t, ps, "material_cost")
	assert.Contains(t, ps, "test_cost")

	rec := doc["technical_recommendations"].([]any)[0].(map[string]any)
	assert.Equal(t, "CU-XLPE-4C-240", rec["selected_sku"])
	match := rec["matches"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(1), match["rank"])
	assert.Contains(t, match, "details")
}

func TestWriteJSON_BadPath(t *testing.T) {
	err := WriteJSON(filepath.Join(t.TempDir(), "missing", "out.json"), model.Proposal{})
	assert.Error(t, err)
}
