package core

// -----------------------------------------------------------------------------
// Test Progress
// -----------------------------------------------------------------------------

// Progress is the state of a smoke test as seen by the caller. INCOMPLETE is
// the implicit default; COMPLETE ends a polling stage; SUCCESS and FAIL end
// the whole test.
type Progress string

const (
	ProgressIncomplete Progress = "INCOMPLETE"
	ProgressComplete   Progress = "COMPLETE"
	ProgressSuccess    Progress = "SUCCESS"
	ProgressFail       Progress = "FAIL"
)

func (p Progress) String() string {
	return string(p)
}

// -----------------------------------------------------------------------------
// Outcome
// -----------------------------------------------------------------------------

// Outcome is one element of the status stream emitted while a smoke test
// runs. The last element of a concluded test has progress SUCCESS or FAIL.
// Outcomes are immutable values; probes build a fresh one per evaluation.
type Outcome struct {
	// Description is a human readable narration of the latest test state.
	Description string `json:"description" example:"Still waiting for offender A7742DY to be updated"`
	// Progress is the current progress of the test.
	Progress Progress `json:"progress" enums:"INCOMPLETE,COMPLETE,SUCCESS,FAIL"`
}

// HasResult reports whether the outcome concludes the whole test. Once an
// outcome with a result is emitted no further outcomes follow.
func (o Outcome) HasResult() bool {
	return o.Progress == ProgressSuccess || o.Progress == ProgressFail
}

// StageComplete reports whether the outcome ends the current polling stage,
// either because the awaited condition was observed or because the test
// concluded. This is the single stopping predicate shared by the polling
// primitive and the workflow composer.
func (o Outcome) StageComplete() bool {
	switch o.Progress {
	case ProgressComplete, ProgressSuccess, ProgressFail:
		return true
	default:
		return false
	}
}

// Incomplete returns an outcome for a test that is still running.
func Incomplete(description string) Outcome {
	return Outcome{Description: description, Progress: ProgressIncomplete}
}

// Completed returns an outcome that ends the current stage and lets the
// workflow proceed.
func Completed(description string) Outcome {
	return Outcome{Description: description, Progress: ProgressComplete}
}

// Success returns a terminal successful outcome.
func Success(description string) Outcome {
	return Outcome{Description: description, Progress: ProgressSuccess}
}

// Fail returns a terminal failed outcome.
func Fail(description string) Outcome {
	return Outcome{Description: description, Progress: ProgressFail}
}
