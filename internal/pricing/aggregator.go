package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"rfp-service/internal/catalog"
	"rfp-service/internal/matching"
)

var ErrUnknownSKU = errors.New("sku not found in catalog")

// LookupError is returned when a selection names a SKU the catalog does
// not have. A missing price is never treated as zero.
type LookupError struct {
	Product     string
	SKU         string
	Suggestions []string
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("price %q: %v: %s", e.Product, ErrUnknownSKU, e.SKU)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

func (e *LookupError) Unwrap() error { return ErrUnknownSKU }

// Catalog is the read-only view of the catalog pricing needs.
type Catalog interface {
	FindByID(sku string) (catalog.Item, bool)
	Suggest(sku string, n int) []string
}

// Aggregator prices selections against a catalog snapshot.
type Aggregator struct {
	catalog Catalog
}

func NewAggregator(c Catalog) *Aggregator {
	return &Aggregator{catalog: c}
}

// Select picks the rank-1 candidate for req. ok is false when nothing was
// ranked, e.g. for an empty catalog.
func Select(req matching.Requirement, cands []matching.Candidate) (Selection, bool) {
	if len(cands) == 0 {
		return Selection{}, false
	}
	return Selection{Product: req.Name, SKU: cands[0].SKU, Quantity: req.Quantity}, true
}

// Compute prices every selection with the catalog unit price and adds the
// mandatory test fees once.
func (a *Aggregator) Compute(selections []Selection, sched *Schedule) (Summary, error) {
	sum := Summary{
		Lines:        make([]Line, 0, len(selections)),
		MaterialCost: decimal.Zero,
	}
	for _, sel := range selections {
		item, ok := a.catalog.FindByID(sel.SKU)
		if !ok {
			return Summary{}, &LookupError{
				Product:     sel.Product,
				SKU:         sel.SKU,
				Suggestions: a.catalog.Suggest(sel.SKU, 3),
			}
		}
		cost := item.UnitPrice.Mul(sel.Quantity)
		sum.Lines = append(sum.Lines, Line{
			Product:      sel.Product,
			SKU:          sel.SKU,
			Quantity:     sel.Quantity,
			UnitPrice:    item.UnitPrice,
			MaterialCost: cost,
		})
		sum.MaterialCost = sum.MaterialCost.Add(cost)
	}

	sum.Tests = sched.Mandatory()
	sum.TestCost = sched.MandatoryTotal()
	sum.GrandTotal = sum.MaterialCost.Add(sum.TestCost)
	return sum, nil
}
