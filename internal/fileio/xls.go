package fileio

import (
	"bytes"
	"errors"
	"io"
	"strings"

	xls "github.com/extrame/xls"
)

const probeCols = 256

// sheetWidth probes every row for its last non-empty cell. Row.LastCol is
// unreliable on files exported by older tools, so the width is measured.
func sheetWidth(sheet *xls.WorkSheet) int {
	width := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := width; j < probeCols; j++ {
			if strings.TrimSpace(row.Col(j)) != "" {
				width = j + 1
			}
		}
	}
	if width == 0 {
		width = 1
	}
	return width
}

func readXLS(r io.Reader, headerRow int) (*Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var wb *xls.WorkBook
	for _, charset := range []string{"utf-8", "windows-1251"} {
		wb, err = xls.OpenReader(bytes.NewReader(b), charset)
		if err == nil && wb != nil {
			break
		}
	}
	if wb == nil {
		if err == nil {
			err = errors.New("xls: failed to open workbook")
		}
		return nil, err
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return &Table{}, nil
	}

	width := sheetWidth(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		cols := make([]string, width)
		if row := sheet.Row(i); row != nil {
			for j := 0; j < width; j++ {
				cols[j] = strings.TrimSpace(row.Col(j))
			}
		}
		rows = append(rows, cols)
	}
	return buildTable(rows, headerRow), nil
}
