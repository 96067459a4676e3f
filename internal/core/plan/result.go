package plan

// Status is the outcome of a single executed step.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Skip reasons used by the executor. A step already satisfied by remote state
// is safe to skip; steps after a failure are abandoned, not attempted.
const (
	SkipAlreadySatisfied = "already satisfied"
	SkipPriorStepFailed  = "prior step failed"
	SkipNothingToDo      = "nothing to do"
)

// StepResult records what happened to one step.
type StepResult struct {
	Step   Step
	Status Status
	Reason string
	Err    error
}

// Artifacts are the refs and objects a run produced (or found already in
// place). They are reported to the caller so a partially failed run can be
// resumed or cleaned up by hand.
type Artifacts struct {
	Branch     string
	BranchURL  string
	Tag        string
	PRNumber   int
	PRURL      string
	ReleaseURL string
}

// Result is the terminal aggregate of executing a plan.
type Result struct {
	Action    string
	Version   string
	Steps     []StepResult
	Artifacts Artifacts
}

// Failed reports whether any step failed.
func (r *Result) Failed() bool {
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			return true
		}
	}
	return false
}

// FirstError returns the error of the first failed step, or nil.
func (r *Result) FirstError() error {
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			return s.Err
		}
	}
	return nil
}

// AllSkipped reports whether every step was skipped, which is how an
// idempotent re-run of an already satisfied plan presents.
func (r *Result) AllSkipped() bool {
	if len(r.Steps) == 0 {
		return true
	}
	for _, s := range r.Steps {
		if s.Status != StatusSkipped {
			return false
		}
	}
	return true
}
