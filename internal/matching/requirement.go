package matching

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rfp-service/internal/fileio"
	"rfp-service/internal/utils"
)

var ErrInvalidRequirement = errors.New("invalid requirement")

// Validate checks the fields pricing depends on. Missing technical fields
// are allowed; they just score as mismatches.
func (r Requirement) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: empty product name", ErrInvalidRequirement)
	}
	if !r.Quantity.IsPositive() {
		return fmt.Errorf("%w: %q: quantity must be positive, got %s", ErrInvalidRequirement, r.Name, r.Quantity)
	}
	return nil
}

// ValidateAll validates reqs in order and reports the first failure with
// its position.
func ValidateAll(reqs []Requirement) error {
	for i, r := range reqs {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("requirement %d: %w", i+1, err)
		}
	}
	return nil
}

// RequirementColumns are the sheet columns read by LoadRequirements.
// Technical columns may be absent from the sheet or blank in a row.
var RequirementColumns = []fileio.Column{
	{Name: "product_name", Aliases: []string{"description", "item"}},
	{Name: "quantity", Aliases: []string{"qty"}},
}

var optionalColumns = []fileio.Column{
	{Name: "voltage_rating", Aliases: []string{"voltage_rating_kv", "voltage"}},
	{Name: "conductor_size", Aliases: []string{"conductor_size_mm2", "cross_section"}},
	{Name: "material"},
	{Name: "insulation_type", Aliases: []string{"insulation"}},
	{Name: "core_count", Aliases: []string{"cores"}},
}

// LoadRequirementsFile reads the requirement list handed over by document
// extraction: a JSON array, or a CSV/XLS/XLSX sheet.
func LoadRequirementsFile(path string) ([]Requirement, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := validateRequirementsJSON(b); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		var reqs []Requirement
		if err := json.Unmarshal(b, &reqs); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if err := ValidateAll(reqs); err != nil {
			return nil, err
		}
		return reqs, nil
	}
	t, err := fileio.OpenFile(path, 1)
	if err != nil {
		return nil, err
	}
	return LoadRequirements(path, t)
}

// LoadRequirements converts sheet rows into requirements. Blank technical
// cells become nil.
func LoadRequirements(source string, t *fileio.Table) ([]Requirement, error) {
	cols, err := t.Bind(source, RequirementColumns)
	if err != nil {
		return nil, err
	}
	for _, c := range optionalColumns {
		if h, ok := t.Resolve(c.Name + "|" + strings.Join(c.Aliases, "|")); ok {
			cols[c.Name] = h
		}
	}

	reqs := make([]Requirement, 0, t.Len())
	for _, rec := range t.Rows {
		cell := func(col string) string {
			h, ok := cols[col]
			if !ok {
				return ""
			}
			return rec.Get(h)
		}
		bad := func(col, val string, err error) error {
			return &fileio.DataError{Source: source, Line: rec.Line, Column: cols[col], Value: val, Err: err}
		}

		r := Requirement{Name: cell("product_name")}
		qty, ok := utils.ParseDecimal(cell("quantity"))
		if !ok {
			return nil, bad("quantity", cell("quantity"), fileio.ErrInvalidNumber)
		}
		r.Quantity = qty

		for _, f := range []struct {
			col string
			dst **float64
		}{
			{"voltage_rating", &r.VoltageKV},
			{"conductor_size", &r.ConductorSizeMM2},
		} {
			if raw := cell(f.col); raw != "" {
				v, ok := utils.ParseFloat(raw)
				if !ok {
					return nil, bad(f.col, raw, fileio.ErrInvalidNumber)
				}
				*f.dst = &v
			}
		}
		if raw := cell("core_count"); raw != "" {
			n, ok := utils.ParseInt(raw)
			if !ok {
				return nil, bad("core_count", raw, fileio.ErrInvalidNumber)
			}
			r.CoreCount = &n
		}
		if raw := cell("material"); raw != "" {
			r.Material = &raw
		}
		if raw := cell("insulation_type"); raw != "" {
			r.Insulation = &raw
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", source, rec.Line, err)
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}
