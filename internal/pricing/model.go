// Package pricing turns selected catalog items and the test-fee schedule
// into a priced bid.
package pricing

import "github.com/shopspring/decimal"

// TestFee is one row of the test-fee schedule.
type TestFee struct {
	Type      string          `json:"test_type"`
	Mandatory bool            `json:"mandatory"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// Selection is the catalog item chosen for a requirement line.
type Selection struct {
	Product  string          `json:"product"`
	SKU      string          `json:"sku"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Line is a priced selection.
type Line struct {
	Product      string          `json:"product"`
	SKU          string          `json:"sku"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	MaterialCost decimal.Decimal `json:"material_cost"`
}

// Summary is the result of one pricing run. GrandTotal is always
// MaterialCost + TestCost; nothing is rounded.
type Summary struct {
	Lines        []Line          `json:"detailed_pricing"`
	Tests        []TestFee       `json:"test_breakdown"`
	MaterialCost decimal.Decimal `json:"material_cost"`
	TestCost     decimal.Decimal `json:"test_cost"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
}
