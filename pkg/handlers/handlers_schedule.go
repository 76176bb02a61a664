package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/export"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/scheduler"
)

const workbookFilename = "ABCIE_shift_matrix.xlsx"

// runSchedule binds the input, runs the scheduler and records usage. On
// failure it writes the error response and returns nil.
func (h *Handler) runSchedule(c *gin.Context) *scheduler.Result {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil
	}

	opts, err := scheduler.OptionsFromInput(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil
	}

	res, err := h.Scheduler.Run(c.Request.Context(), opts)
	if err != nil {
		h.writeRunError(c, res, err)
		return nil
	}

	h.RecordUsage(c, len(res.Assignments), len(res.Unassigned))
	return res
}

func (h *Handler) writeRunError(c *gin.Context, res *scheduler.Result, err error) {
	var storeErr *scheduler.StoreError
	switch {
	case errors.Is(err, scheduler.ErrInvalidDateRange), errors.Is(err, scheduler.ErrNoZones):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &storeErr):
		body := gin.H{"error": err.Error(), "partial": res.Response()}
		if !storeErr.CompletedThrough.IsZero() {
			body["completed_through"] = storeErr.CompletedThrough
		}
		c.JSON(http.StatusInternalServerError, body)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduling canceled"})
	default:
		h.Log.WithError(err).Error("Scheduling failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Scheduling failed"})
	}
}

// ScheduleJSON handles the JSON-based scheduling request
func (h *Handler) ScheduleJSON(c *gin.Context) {
	res := h.runSchedule(c)
	if res == nil {
		return
	}
	c.JSON(http.StatusOK, res.Response())
}

// ScheduleCSV returns the long schedule, the matrix and the unassigned list as CSV text
func (h *Handler) ScheduleCSV(c *gin.Context) {
	res := h.runSchedule(c)
	if res == nil {
		return
	}

	report := export.FromResult(res)
	var long, matrix, unassigned bytes.Buffer
	if err := export.WriteAssignmentsCSV(&long, report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not write CSV"})
		return
	}
	if err := export.WriteMatrixCSV(&matrix, export.BuildMatrix(report)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not write CSV"})
		return
	}
	if err := export.WriteUnassignedCSV(&unassigned, report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not write CSV"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":         res.RunID,
		"csv":            long.String(),
		"matrix_csv":     matrix.String(),
		"unassigned_csv": unassigned.String(),
	})
}

// ScheduleXLSX returns the matrix workbook as a download
func (h *Handler) ScheduleXLSX(c *gin.Context) {
	res := h.runSchedule(c)
	if res == nil {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, export.FromResult(res)); err != nil {
		h.Log.WithError(err).Error("Could not build workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build workbook"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+workbookFilename+`"`)
	c.Header("X-Run-ID", res.RunID)
	c.Data(http.StatusOK, export.XLSXContentType, buf.Bytes())
}
