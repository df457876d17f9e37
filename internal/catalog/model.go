// Package catalog loads the vendor product table and serves read-only
// lookups over it.
package catalog

import "github.com/shopspring/decimal"

// Item is one sellable cable variant.
type Item struct {
	SKU              string          `json:"sku"`
	VoltageKV        float64         `json:"voltage_rating_kv"`
	ConductorSizeMM2 float64         `json:"conductor_size_mm2"`
	Material         string          `json:"material"`
	Insulation       string          `json:"insulation_type"`
	CoreCount        int             `json:"core_count"`
	TemperatureC     int             `json:"temperature_rating_celsius"`
	Certified        bool            `json:"bis_certified"`
	UnitPrice        decimal.Decimal `json:"unit_price_per_meter"`
	LeadTimeDays     int             `json:"lead_time_days"`
}
