package scheduler

import (
	"errors"
	"fmt"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
)

// ErrInvalidDateRange is returned before any day is scheduled when the
// start date is missing or falls after the end date
var ErrInvalidDateRange = errors.New("invalid date range")

// ErrNoZones is returned when a run lists a zone outside the fixed zone set
// or lists a zone twice. An empty zone list means every zone.
var ErrNoZones = errors.New("invalid zone list")

// StoreError reports a load write-back that failed mid-run. Assignments made
// before the failure have already been persisted and are not rolled back.
type StoreError struct {
	Date   models.Date
	Zone   models.Zone
	Person string
	// CompletedThrough is the last date whose zones were all decided, zero if none
	CompletedThrough models.Date
	Err              error
}

func (e *StoreError) Error() string {
	completed := "no day completed"
	if !e.CompletedThrough.IsZero() {
		completed = "completed through " + e.CompletedThrough.String()
	}
	return fmt.Sprintf("apply load for %s on %s zone %s (%s): %v", e.Person, e.Date, e.Zone, completed, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
