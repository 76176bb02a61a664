package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
)

func sampleReport() Report {
	fri := models.NewDate(2025, 8, 1)
	sat := models.NewDate(2025, 8, 2)
	return Report{
		Start:  fri,
		End:    sat,
		Roster: []models.Person{{Name: "bob"}, {Name: "alice"}},
		Assignments: []models.AssignmentRecord{
			{Date: fri, Zone: models.ZoneA, Person: "alice", Load: 1},
			{Date: fri, Zone: models.ZoneB, Person: "bob", Load: 1},
			{Date: sat, Zone: models.ZoneA, Person: "bob", Load: 2},
		},
		Unassigned: []models.UnassignedRecord{
			{Date: sat, Zone: models.ZoneB, Reason: models.ReasonNoEligibleCandidate, Details: []string{"1 within cooldown", "1 already assigned today"}},
		},
	}
}

func TestBuildMatrix(t *testing.T) {
	m := BuildMatrix(sampleReport())

	assert.Equal(t, []string{"bob", "alice"}, m.People, "columns follow roster order")
	require.Len(t, m.Dates, 2)
	assert.Equal(t, []string{"B", "A"}, m.Cells[0])
	assert.Equal(t, []string{"A", ""}, m.Cells[1])
	assert.Equal(t, []int{3, 1}, m.Totals)
}

func TestBuildMatrix_JoinsSecondZone(t *testing.T) {
	r := sampleReport()
	r.Assignments = append(r.Assignments,
		models.AssignmentRecord{Date: r.Start, Zone: models.ZoneC, Person: "alice", Load: 1},
		models.AssignmentRecord{Date: r.Start, Zone: models.ZoneC, Person: "alice", Load: 1},
	)
	m := BuildMatrix(r)
	assert.Equal(t, "A/C", m.Cells[0][1])
}

func TestBuildMatrix_EmptyRosterUsesAssignees(t *testing.T) {
	r := sampleReport()
	r.Roster = nil
	m := BuildMatrix(r)
	assert.Equal(t, []string{"alice", "bob"}, m.People)
}

func TestWriteMatrixCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMatrixCSV(&buf, BuildMatrix(sampleReport())))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Date", "bob", "alice"}, rows[0])
	assert.Equal(t, []string{"2025-08-01", "B", "A"}, rows[1])
	assert.Equal(t, []string{TotalRowLabel, "3", "1"}, rows[3])
}

func TestWriteLongCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAssignmentsCSV(&buf, sampleReport()))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"2025-08-02", "A", "bob", "2"}, rows[3])

	buf.Reset()
	require.NoError(t, WriteUnassignedCSV(&buf, sampleReport()))
	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "no-eligible-candidate", rows[1][2])
	assert.Equal(t, "1 within cooldown; 1 already assigned today", rows[1][3])
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetMatrix, SheetLong, SheetUnassigned}, f.GetSheetList())

	val, err := f.GetCellValue(SheetMatrix, "B2")
	require.NoError(t, err)
	assert.Equal(t, "B", val)
	val, err = f.GetCellValue(SheetMatrix, "A4")
	require.NoError(t, err)
	assert.Equal(t, TotalRowLabel, val)
	val, err = f.GetCellValue(SheetMatrix, "B4")
	require.NoError(t, err)
	assert.Equal(t, "3", val)

	panes, err := f.GetPanes(SheetMatrix)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, "B2", panes.TopLeftCell)

	rows, err := f.GetRows(SheetLong)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}
