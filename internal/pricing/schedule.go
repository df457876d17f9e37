package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"rfp-service/internal/fileio"
	"rfp-service/internal/utils"
)

// ScheduleColumns lists the columns a test-fee sheet must carry.
var ScheduleColumns = []fileio.Column{
	{Name: "test_type", Aliases: []string{"test"}},
	{Name: "mandatory", Aliases: []string{"required"}},
	{Name: "unit_cost", Aliases: []string{"unit_cost_rupees", "cost"}},
}

// Schedule is the immutable test-fee table.
type Schedule struct {
	fees []TestFee
}

func NewSchedule(fees []TestFee) *Schedule {
	cp := make([]TestFee, len(fees))
	copy(cp, fees)
	return &Schedule{fees: cp}
}

// Fees returns every entry in source order.
func (s *Schedule) Fees() []TestFee {
	if s == nil {
		return nil
	}
	out := make([]TestFee, len(s.fees))
	copy(out, s.fees)
	return out
}

// Mandatory returns the entries billed on every bid.
func (s *Schedule) Mandatory() []TestFee {
	out := []TestFee{}
	if s == nil {
		return out
	}
	for _, f := range s.fees {
		if f.Mandatory {
			out = append(out, f)
		}
	}
	return out
}

// MandatoryTotal sums the mandatory entries. It does not depend on what
// was selected or in what quantity.
func (s *Schedule) MandatoryTotal() decimal.Decimal {
	total := decimal.Zero
	for _, f := range s.Mandatory() {
		total = total.Add(f.UnitCost)
	}
	return total
}

// LoadScheduleFile reads a test-fee sheet from disk.
func LoadScheduleFile(path string) (*Schedule, error) {
	t, err := fileio.OpenFile(path, 1)
	if err != nil {
		return nil, err
	}
	return LoadSchedule(path, t)
}

// LoadSchedule validates every row; the first bad cell aborts the load.
func LoadSchedule(source string, t *fileio.Table) (*Schedule, error) {
	cols, err := t.Bind(source, ScheduleColumns)
	if err != nil {
		return nil, err
	}
	fees := make([]TestFee, 0, t.Len())
	for _, rec := range t.Rows {
		bad := func(col, val string, err error) error {
			return &fileio.DataError{Source: source, Line: rec.Line, Column: cols[col], Value: val, Err: err}
		}

		typ := strings.TrimSpace(rec.Get(cols["test_type"]))
		if typ == "" {
			return nil, bad("test_type", "", fileio.ErrEmptyValue)
		}
		rawFlag := rec.Get(cols["mandatory"])
		mandatory, ok := utils.ParseFlag(rawFlag)
		if !ok {
			return nil, bad("mandatory", rawFlag, fileio.ErrInvalidFlag)
		}
		rawCost := rec.Get(cols["unit_cost"])
		cost, ok := utils.ParseDecimal(rawCost)
		if !ok {
			return nil, bad("unit_cost", rawCost, fileio.ErrInvalidNumber)
		}
		fees = append(fees, TestFee{Type: typ, Mandatory: mandatory, UnitCost: cost})
	}
	return &Schedule{fees: fees}, nil
}
