package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

func itoa(v int) string {
	return strconv.Itoa(v)
}

// WriteMatrixCSV writes the day-by-person matrix
func WriteMatrixCSV(w io.Writer, m *Matrix) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(m.Rows()); err != nil {
		return err
	}
	return writer.Error()
}

// WriteAssignmentsCSV writes one row per assignment in generation order
func WriteAssignmentsCSV(w io.Writer, r Report) error {
	writer := csv.NewWriter(w)
	writer.Write([]string{"date", "zone", "person", "load"})
	for _, a := range r.Assignments {
		writer.Write([]string{a.Date.String(), string(a.Zone), a.Person, itoa(a.Load)})
	}
	writer.Flush()
	return writer.Error()
}

// WriteUnassignedCSV writes one row per empty day and zone
func WriteUnassignedCSV(w io.Writer, r Report) error {
	writer := csv.NewWriter(w)
	writer.Write([]string{"date", "zone", "reason", "details"})
	for _, u := range r.Unassigned {
		writer.Write([]string{u.Date.String(), string(u.Zone), string(u.Reason), strings.Join(u.Details, "; ")})
	}
	writer.Flush()
	return writer.Error()
}
