package metrics

// Recorder receives scheduling events. Implementations must be safe for
// concurrent use since independent runs may share one recorder.
type Recorder interface {
	// RecordAssignment counts a committed assignment and the load it carried.
	RecordAssignment(zone string, load int)
	// RecordUnassigned counts a day and zone left empty.
	RecordUnassigned(zone, reason string)
	// RecordLoadWrite counts a load write-back to the roster store.
	RecordLoadWrite(success bool)
	// RecordRun observes a finished run; outcome is ok, invalid, store_error or canceled.
	RecordRun(seconds float64, outcome string)
}

// Run outcomes passed to RecordRun.
const (
	OutcomeOK         = "ok"
	OutcomeInvalid    = "invalid"
	OutcomeStoreError = "store_error"
	OutcomeCanceled   = "canceled"
)

// NopRecorder discards every event.
type NopRecorder struct{}

var _ Recorder = (*NopRecorder)(nil)

// NewNop creates a recorder that drops everything.
func NewNop() *NopRecorder {
	return &NopRecorder{}
}

func (*NopRecorder) RecordAssignment(_ string, _ int) {}

func (*NopRecorder) RecordUnassigned(_, _ string) {}

func (*NopRecorder) RecordLoadWrite(_ bool) {}

func (*NopRecorder) RecordRun(_ float64, _ string) {}
