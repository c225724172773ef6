package ingest

import (
	"github.com/pkg/errors"
	"github.com/tealeg/xlsx"
)

// SheetSelection chooses which workbook sheets to ingest. The zero value
// means the first sheet.
type SheetSelection struct {
	// All ingests every sheet, concatenating rows in workbook order.
	All bool
	// Names ingests the listed sheets in order. Ignored when All is set.
	Names []string
}

// readXLSX parses workbook sheets into raw records. The first row of each
// selected sheet is the header; cells stay raw strings and rows from
// multiple sheets are concatenated.
func readXLSX(path string, sel SheetSelection) ([]Record, error) {
	wb, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: errors.Wrap(err, "open workbook")}
	}

	sheets, err := selectSheets(wb, sel, path)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, sheet := range sheets {
		if len(sheet.Rows) == 0 {
			return nil, &SourceError{Path: path, Err: errors.Errorf("sheet %q is empty, header row required", sheet.Name)}
		}
		header := make([]string, len(sheet.Rows[0].Cells))
		for i, cell := range sheet.Rows[0].Cells {
			header[i] = cell.Value
		}
		for _, row := range sheet.Rows[1:] {
			rec := make(Record, len(header))
			for i, name := range header {
				if i < len(row.Cells) {
					rec[name] = row.Cells[i].Value
				} else {
					rec[name] = ""
				}
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

func selectSheets(wb *xlsx.File, sel SheetSelection, path string) ([]*xlsx.Sheet, error) {
	if sel.All {
		if len(wb.Sheets) == 0 {
			return nil, &SourceError{Path: path, Err: errors.New("workbook has no sheets")}
		}
		return wb.Sheets, nil
	}
	if len(sel.Names) > 0 {
		sheets := make([]*xlsx.Sheet, 0, len(sel.Names))
		for _, name := range sel.Names {
			sheet, ok := wb.Sheet[name]
			if !ok {
				return nil, &SourceError{Path: path, Err: errors.Errorf("sheet %q not found", name)}
			}
			sheets = append(sheets, sheet)
		}
		return sheets, nil
	}
	if len(wb.Sheets) == 0 {
		return nil, &SourceError{Path: path, Err: errors.New("workbook has no sheets")}
	}
	return wb.Sheets[:1], nil
}
