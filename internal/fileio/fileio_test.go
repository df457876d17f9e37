package fileio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"
)

func TestReadAny_CSV(t *testing.T) {
	src := "product_sku,material,unit_price_per_meter\n" +
		"CBL-1,Copper,450\n" +
		",,\n" +
		"CBL-2,Aluminium,120.5\n"

	tbl, err := ReadAny(strings.NewReader(src), "catalog.csv", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"product_sku", "material", "unit_price_per_meter"}, tbl.Headers)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "CBL-1", tbl.Rows[0].Get("product_sku"))
	assert.Equal(t, 2, tbl.Rows[0].Line)
	// blank row 3 is skipped but line numbers keep pointing at the source
	assert.Equal(t, 4, tbl.Rows[1].Line)
	assert.Equal(t, "120.5", tbl.Rows[1].Get("unit_price_per_meter"))
}

func TestReadAny_HeaderRowOffset(t *testing.T) {
	src := "Vendor price list\nsku,price\nA,1\n"

	tbl, err := ReadAny(strings.NewReader(src), "list.csv", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"sku", "price"}, tbl.Headers)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, 3, tbl.Rows[0].Line)
}

func TestReadAny_BlankHeadersNamed(t *testing.T) {
	tbl, err := ReadAny(strings.NewReader("sku,,price\nA,x,1\n"), "a.csv", 1)
	require.NoError(t, err)
	assert.Equal(t, "Column 2", tbl.Headers[1])
	assert.Equal(t, "x", tbl.Rows[0].Get("Column 2"))
}

func TestReadAny_EmptyInput(t *testing.T) {
	tbl, err := ReadAny(strings.NewReader(""), "a.csv", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.Headers)
}

func TestReadAny_Unsupported(t *testing.T) {
	_, err := ReadAny(strings.NewReader("x"), "catalog.pdf", 1)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadAny_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"test_type", "mandatory", "unit_cost"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Routine Test", "Yes", 5000}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Type Test", "No", 25000}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	tbl, err := ReadAny(&buf, "tests.xlsx", 1)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Routine Test", tbl.Rows[0].Get("test_type"))
	assert.Equal(t, "25000", tbl.Rows[1].Get("unit_cost"))
}

func TestTable_Resolve(t *testing.T) {
	tbl := &Table{Headers: []string{"Product SKU", "Unit Price (per meter)", "BIS_Certified", "unit_cost_rupees"}}

	tests := []struct {
		want   string
		expect string
		ok     bool
	}{
		{"Product SKU", "Product SKU", true},
		{"product_sku|sku", "Product SKU", true},
		{"bis certified", "BIS_Certified", true},
		{"unit_price_per_meter|unit price", "Unit Price (per meter)", true},
		{"unit_cost_rupees|unit_cost", "unit_cost_rupees", true},
		// look-alike headers are not bound to a missing column
		{"unit_cost", "", false},
		{"sku", "", false},
		{"price", "", false},
		{"lead_time_days", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, ok := tbl.Resolve(tt.want)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestTable_Bind(t *testing.T) {
	tbl := &Table{Headers: []string{"SKU", "Price"}}

	got, err := tbl.Bind("catalog.csv", []Column{
		{Name: "product_sku", Aliases: []string{"sku"}},
		{Name: "unit_price", Aliases: []string{"price"}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"product_sku": "SKU", "unit_price": "Price"}, got)

	_, err = tbl.Bind("catalog.csv", []Column{{Name: "lead_time_days"}})
	require.ErrorIs(t, err, ErrMissingColumn)

	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "lead_time_days", de.Column)
	assert.Equal(t, `catalog.csv, column "lead_time_days": missing required column`, err.Error())
}

func TestTable_BindRejectsLookAlikes(t *testing.T) {
	tbl := &Table{Headers: []string{"product_sku", "sheath_material", "insulation_thickness_mm"}}

	_, err := tbl.Bind("catalog.csv", []Column{
		{Name: "product_sku"},
		{Name: "material"},
		{Name: "insulation_type", Aliases: []string{"insulation"}},
	})
	require.ErrorIs(t, err, ErrMissingColumn)
	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "material", de.Column)
}

func TestTable_BindRejectsReusedHeader(t *testing.T) {
	tbl := &Table{Headers: []string{"SKU", "Voltage"}}

	_, err := tbl.Bind("catalog.csv", []Column{
		{Name: "product_sku", Aliases: []string{"sku"}},
		{Name: "voltage_rating_kv", Aliases: []string{"voltage"}},
		{Name: "voltage_rating", Aliases: []string{"voltage"}},
	})
	require.ErrorIs(t, err, ErrColumnReused)
	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "voltage_rating", de.Column)
	assert.Equal(t, "Voltage", de.Value)
}

func TestValidUTF8Prefix(t *testing.T) {
	assert.True(t, validUTF8Prefix([]byte("240mm²")))
	// cut in the middle of "²" (0xC2 0xB2)
	assert.True(t, validUTF8Prefix([]byte("240mm\xc2")))
	assert.False(t, validUTF8Prefix([]byte("\xcc\xe5\xe4\xfc ok")))
}
