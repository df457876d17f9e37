package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"rfp-service/internal/fileio"
	"rfp-service/internal/utils"
)

var (
	ErrEmptySKU     = errors.New("empty product sku")
	ErrDuplicateSKU = errors.New("duplicate product sku")
)

const (
	colSKU         = "product_sku"
	colVoltage     = "voltage_rating_kv"
	colSize        = "conductor_size_mm2"
	colMaterial    = "material"
	colInsulation  = "insulation_type"
	colCores       = "core_count"
	colCertified   = "bis_certified"
	colUnitPrice   = "unit_price_per_meter"
	colLeadTime    = "lead_time_days"
	colTemperature = "temperature_rating_celsius"
)

// Columns lists every column a catalog sheet must carry.
var Columns = []fileio.Column{
	{Name: colSKU, Aliases: []string{"sku", "identifier"}},
	{Name: colVoltage, Aliases: []string{"voltage_kv", "voltage"}},
	{Name: colSize, Aliases: []string{"cross_section", "conductor_size"}},
	{Name: colMaterial, Aliases: []string{"conductor_material"}},
	{Name: colInsulation, Aliases: []string{"insulation"}},
	{Name: colCores, Aliases: []string{"cores"}},
	{Name: colCertified, Aliases: []string{"certified", "certification"}},
	{Name: colUnitPrice, Aliases: []string{"unit_price"}},
	{Name: colLeadTime, Aliases: []string{"lead_time"}},
	{Name: colTemperature, Aliases: []string{"temperature_rating", "temperature"}},
}

// LoadFile reads and validates a catalog from a CSV, XLS or XLSX file.
func LoadFile(path string) (*Store, error) {
	t, err := fileio.OpenFile(path, 1)
	if err != nil {
		return nil, err
	}
	return Load(path, t)
}

// Load validates every row of t and builds the store. Any bad row aborts
// the load; nothing is skipped.
func Load(source string, t *fileio.Table) (*Store, error) {
	cols, err := t.Bind(source, Columns)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, t.Len())
	seen := make(map[string]int, t.Len())
	for _, rec := range t.Rows {
		p := rowParser{source: source, rec: rec, cols: cols}

		it := Item{
			SKU:              p.text(colSKU),
			VoltageKV:        p.float(colVoltage),
			ConductorSizeMM2: p.float(colSize),
			Material:         p.text(colMaterial),
			Insulation:       p.text(colInsulation),
			CoreCount:        p.int(colCores),
			TemperatureC:     p.int(colTemperature),
			Certified:        p.flag(colCertified),
			UnitPrice:        p.decimal(colUnitPrice),
			LeadTimeDays:     p.int(colLeadTime),
		}
		if p.err != nil {
			return nil, p.err
		}
		if it.SKU == "" {
			return nil, p.fail(colSKU, "", ErrEmptySKU)
		}
		if first, dup := seen[it.SKU]; dup {
			return nil, p.fail(colSKU, it.SKU, fmt.Errorf("%w (first seen on line %d)", ErrDuplicateSKU, first))
		}
		seen[it.SKU] = rec.Line
		items = append(items, it)
	}
	return newStore(items), nil
}

// rowParser keeps the first conversion error of a row.
type rowParser struct {
	source string
	rec    fileio.Record
	cols   map[string]string
	err    error
}

func (p *rowParser) fail(col, val string, err error) error {
	return &fileio.DataError{Source: p.source, Line: p.rec.Line, Column: p.cols[col], Value: val, Err: err}
}

func (p *rowParser) text(col string) string {
	return strings.TrimSpace(p.rec.Get(p.cols[col]))
}

func (p *rowParser) float(col string) float64 {
	raw := p.text(col)
	v, ok := utils.ParseFloat(raw)
	if !ok && p.err == nil {
		p.err = p.fail(col, raw, fileio.ErrInvalidNumber)
	}
	return v
}

func (p *rowParser) int(col string) int {
	raw := p.text(col)
	v, ok := utils.ParseInt(raw)
	if !ok && p.err == nil {
		p.err = p.fail(col, raw, fileio.ErrInvalidNumber)
	}
	return v
}

func (p *rowParser) flag(col string) bool {
	raw := p.text(col)
	v, ok := utils.ParseFlag(raw)
	if !ok && p.err == nil {
		p.err = p.fail(col, raw, fileio.ErrInvalidFlag)
	}
	return v
}

func (p *rowParser) decimal(col string) decimal.Decimal {
	raw := p.text(col)
	v, ok := utils.ParseDecimal(raw)
	if !ok && p.err == nil {
		p.err = p.fail(col, raw, fileio.ErrInvalidNumber)
	}
	return v
}
