// Package matching scores RFP requirement lines against catalog items and
// ranks the catalog for each line.
package matching

import (
	"github.com/shopspring/decimal"
)

// Requirement is one technical line extracted from an RFP. Nil fields mean
// "not specified" and count as mismatches on the mandatory fields.
type Requirement struct {
	Name             string          `json:"product_name"`
	Quantity         decimal.Decimal `json:"quantity"`
	VoltageKV        *float64        `json:"voltage_rating"`
	ConductorSizeMM2 *float64        `json:"conductor_size"`
	Material         *string         `json:"material"`
	Insulation       *string         `json:"insulation_type"`
	CoreCount        *int            `json:"core_count"`
}

// Field names used in explanations.
const (
	FieldVoltage       = "voltage_rating_kv"
	FieldConductorSize = "conductor_size_mm2"
	FieldMaterial      = "material"
	FieldInsulation    = "insulation_type"
	FieldCoreCount     = "core_count"
	FieldCertification = "certification"
)

// FieldCheck records how one field compared.
type FieldCheck struct {
	Field   string `json:"field"`
	Matched bool   `json:"matched"`
	Detail  string `json:"detail,omitempty"`
}

// Explanation lists the field checks in a fixed order.
type Explanation []FieldCheck

// Lookup returns the check for field.
func (e Explanation) Lookup(field string) (FieldCheck, bool) {
	for _, c := range e {
		if c.Field == field {
			return c, true
		}
	}
	return FieldCheck{}, false
}

// Breakdown holds the four weighted sub-scores behind a Candidate's score.
type Breakdown struct {
	Mandatory     float64 `json:"mandatory"`
	Performance   float64 `json:"performance"`
	Certification float64 `json:"certification"`
	Cost          float64 `json:"cost"`
}

// Candidate is one scored catalog item. Rank is 1-based and set only on
// candidates returned by Rank.
type Candidate struct {
	Rank             int             `json:"rank"`
	SKU              string          `json:"sku"`
	Score            float64         `json:"match_score"`
	Breakdown        Breakdown       `json:"breakdown"`
	Explanation      Explanation     `json:"details"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LeadTimeDays     int             `json:"lead_time"`
	VoltageKV        float64         `json:"voltage"`
	ConductorSizeMM2 float64         `json:"conductor_size"`
	Material         string          `json:"material"`
	Insulation       string          `json:"insulation"`
	TemperatureC     int             `json:"temperature"`
}
