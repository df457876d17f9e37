package matching

import (
	"fmt"
	"math"

	"rfp-service/internal/catalog"
)

// Weights of the four sub-scores.
const (
	WeightMandatory     = 0.40
	WeightPerformance   = 0.30
	WeightCertification = 0.20
	WeightCost          = 0.10
)

// Performance tiers for core count.
const (
	CoreExact       = 100.0
	CoreClose       = 80.0
	CoreUnspecified = 85.0
)

const (
	CertifiedScore   = 100.0
	UncertifiedScore = 70.0
)

// CostStage rates how well an item fits the buyer's budget, in [0,100].
type CostStage interface {
	CostScore(req Requirement, item catalog.Item) float64
}

// FlatCost treats every item as within budget. No budget figure is carried
// on a requirement, so there is nothing to compare against.
type FlatCost struct{}

func (FlatCost) CostScore(Requirement, catalog.Item) float64 { return 100 }

// Score rates item against req with the default engine.
func Score(req Requirement, item catalog.Item) (float64, Explanation) {
	return defaultEngine.Score(req, item)
}

// Score returns the weighted score in [0,100], rounded to one decimal, and
// the per-field explanation.
func (e *Engine) Score(req Requirement, item catalog.Item) (float64, Explanation) {
	b, exp := e.evaluate(req, item)
	return b.total(), exp
}

func (e *Engine) evaluate(req Requirement, item catalog.Item) (Breakdown, Explanation) {
	exp := make(Explanation, 0, 6)

	matches := 0
	check := func(field string, ok bool, reqVal, itemVal string) {
		c := FieldCheck{Field: field, Matched: ok}
		if ok {
			matches++
		} else {
			c.Detail = mismatch(reqVal, itemVal)
		}
		exp = append(exp, c)
	}
	check(FieldVoltage, sameNumber(req.VoltageKV, item.VoltageKV), fmtOptFloat(req.VoltageKV), fmtFloat(item.VoltageKV))
	check(FieldConductorSize, sameNumber(req.ConductorSizeMM2, item.ConductorSizeMM2), fmtOptFloat(req.ConductorSizeMM2), fmtFloat(item.ConductorSizeMM2))
	check(FieldMaterial, sameText(req.Material, item.Material), fmtOptText(req.Material), item.Material)
	check(FieldInsulation, sameText(req.Insulation, item.Insulation), fmtOptText(req.Insulation), item.Insulation)

	perf, coreCheck := performance(req.CoreCount, item.CoreCount)
	exp = append(exp, coreCheck)

	cert := FieldCheck{Field: FieldCertification, Matched: item.Certified}
	certScore := CertifiedScore
	if !item.Certified {
		certScore = UncertifiedScore
		cert.Detail = "catalog item is not certified"
	}
	exp = append(exp, cert)

	return Breakdown{
		Mandatory:     100 * float64(matches) / 4,
		Performance:   perf,
		Certification: certScore,
		Cost:          e.cost.CostScore(req, item),
	}, exp
}

// performance keeps three discrete tiers; distance between core counts is
// deliberately ignored.
func performance(req *int, item int) (float64, FieldCheck) {
	c := FieldCheck{Field: FieldCoreCount}
	switch {
	case req == nil:
		c.Detail = mismatch("not specified", fmt.Sprint(item))
		return CoreUnspecified, c
	case *req == item:
		c.Matched = true
		return CoreExact, c
	case *req > 0 && item > 0:
		c.Detail = fmt.Sprintf("close match (requirement: %d, catalog: %d)", *req, item)
		return CoreClose, c
	default:
		c.Detail = mismatch(fmt.Sprint(*req), fmt.Sprint(item))
		return CoreUnspecified, c
	}
}

func (b Breakdown) total() float64 {
	s := WeightMandatory*b.Mandatory +
		WeightPerformance*b.Performance +
		WeightCertification*b.Certification +
		WeightCost*b.Cost
	s = math.Max(0, math.Min(100, s))
	return math.Round(s*10) / 10
}
