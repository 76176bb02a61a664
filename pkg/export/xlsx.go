package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	SheetMatrix     = "Matrix"
	SheetLong       = "Schedule_Long"
	SheetUnassigned = "Unassigned"
)

// XLSXContentType is the MIME type of the workbook WriteWorkbook produces
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteWorkbook writes the matrix, long-form and unassigned sheets. The
// matrix sheet is frozen at B2 so dates and names stay visible.
func WriteWorkbook(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMatrix); err != nil {
		return err
	}
	if err := writeRows(f, SheetMatrix, matrixRows(BuildMatrix(r))); err != nil {
		return err
	}
	if err := f.SetPanes(SheetMatrix, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return err
	}

	long := [][]interface{}{{"Date", "Zone", "Person", "Load"}}
	for _, a := range r.Assignments {
		long = append(long, []interface{}{a.Date.String(), string(a.Zone), a.Person, a.Load})
	}
	if _, err := f.NewSheet(SheetLong); err != nil {
		return err
	}
	if err := writeRows(f, SheetLong, long); err != nil {
		return err
	}

	unassigned := [][]interface{}{{"Date", "Zone", "Reason", "Details"}}
	for _, u := range r.Unassigned {
		unassigned = append(unassigned, []interface{}{u.Date.String(), string(u.Zone), string(u.Reason), strings.Join(u.Details, "; ")})
	}
	if _, err := f.NewSheet(SheetUnassigned); err != nil {
		return err
	}
	if err := writeRows(f, SheetUnassigned, unassigned); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// matrixRows mirrors Matrix.Rows but keeps the totals numeric
func matrixRows(m *Matrix) [][]interface{} {
	rows := make([][]interface{}, 0, len(m.Dates)+2)
	header := []interface{}{"Date"}
	for _, name := range m.People {
		header = append(header, name)
	}
	rows = append(rows, header)
	for i, d := range m.Dates {
		row := []interface{}{d.String()}
		for _, cell := range m.Cells[i] {
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	total := []interface{}{TotalRowLabel}
	for _, t := range m.Totals {
		total = append(total, t)
	}
	return append(rows, total)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
