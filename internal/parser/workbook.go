package parser

import (
	"bytes"
	"fmt"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// workbook is a decoded spreadsheet: sheet names in file order plus the
// raw string cells of each sheet. Both the OOXML container and the legacy
// BIFF container decode into this shape, so the LinkedIn parsers stay
// format-agnostic.
type workbook struct {
	names []string
	cells map[string][][]string
}

func (w *workbook) rowsOf(name string) [][]string {
	return w.cells[name]
}

// openWorkbook decodes spreadsheet bytes by container format: legacy xls
// through the BIFF reader, everything else through excelize.
func openWorkbook(data []byte, ext string) (*workbook, error) {
	if ext == "xls" {
		return openBIFF(data)
	}
	return openOOXML(data)
}

func openOOXML(data []byte) (*workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := &workbook{cells: make(map[string][][]string)}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.names = append(wb.names, name)
		wb.cells[name] = rows
	}
	return wb, nil
}

func openBIFF(data []byte) (*workbook, error) {
	book, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	wb := &workbook{cells: make(map[string][][]string)}
	for i := 0; i < book.GetNumberSheets(); i++ {
		sh, err := book.GetSheet(i)
		if err != nil {
			return nil, fmt.Errorf("read sheet %d: %w", i, err)
		}

		var rows [][]string
		for r := 0; r <= sh.GetNumberRows(); r++ {
			row, err := sh.GetRow(r)
			if err != nil {
				continue
			}
			var cells []string
			for _, col := range row.GetCols() {
				cells = append(cells, col.GetString())
			}
			rows = append(rows, cells)
		}
		wb.names = append(wb.names, sh.GetName())
		wb.cells[sh.GetName()] = rows
	}
	return wb, nil
}
