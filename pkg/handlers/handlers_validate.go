package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/scheduler"
)

// ValidateInput checks a scheduling request against the current roster
// without running it
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	opts, err := scheduler.OptionsFromInput(input)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	people, err := h.Store.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read roster"})
		return
	}

	zones := opts.Zones
	if len(zones) == 0 {
		zones = models.Zones
	}

	// Zones nobody may work stay empty for the whole range
	var warnings []string
	for _, z := range zones {
		staffed := false
		for i := range people {
			if people[i].Allows(z) {
				staffed = true
				break
			}
		}
		if !staffed {
			warnings = append(warnings, "No person is allowed in zone "+string(z))
		}
	}
	if len(people) == 0 {
		warnings = append(warnings, "Roster is empty")
	}

	days := len(models.Range(opts.Start, opts.End))
	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"warnings": warnings,
		"stats": gin.H{
			"person_count": len(people),
			"day_count":    days,
			"slot_count":   days * len(zones),
		},
	})
}
