package model

import (
	"time"

	"rfp-service/internal/matching"
	"rfp-service/internal/pricing"
)

// StatusReady is the status of a freshly built proposal.
const StatusReady = "Ready for Review"

// Opportunity is the RFP record handed over by portal discovery. FitScore
// is computed upstream and only carried through.
type Opportunity struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Client   string  `json:"client"`
	DueDate  string  `json:"due_date"`
	FitScore float64 `json:"fit_score"`
	Value    string  `json:"value"`
}

// Recommendation keeps the full shortlist for a requirement, not just the
// winner, so reviewers can see why alternatives lost.
type Recommendation struct {
	Product       string               `json:"product_name"`
	Requirement   matching.Requirement `json:"rfp_spec"`
	Matches       []matching.Candidate `json:"matches"`
	SelectedSKU   string               `json:"selected_sku"`
	SelectedScore float64              `json:"selected_match_score"`
}

// Proposal is the consolidated output consumed by report rendering. Field
// names are addressed by path downstream; do not rename them.
type Proposal struct {
	RFPID             string           `json:"rfp_id"`
	ProjectName       string           `json:"project_name"`
	ClientName        string           `json:"client_name"`
	DueDate           string           `json:"due_date"`
	StrategicFitScore float64          `json:"strategic_fit_score"`
	RFPValue          string           `json:"rfp_value"`
	Recommendations   []Recommendation `json:"technical_recommendations"`
	Pricing           pricing.Summary  `json:"pricing_summary"`
	Status            string           `json:"status"`
	GeneratedAt       time.Time        `json:"generated_at"`
}
