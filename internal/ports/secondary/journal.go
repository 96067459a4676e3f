package secondary

import (
	"context"
	"time"
)

// RunStep is one executed plan step as recorded in the journal.
type RunStep struct {
	Seq         int
	Description string
	Status      string
	Detail      string
}

// RunRecord is one flow invocation: the action, the target version, and what
// happened to each plan step. The journal is what lets an operator see
// exactly which steps of a partially failed run were applied.
type RunRecord struct {
	ID         int64
	Action     string
	Version    string
	Branch     string
	Outcome    string
	StartedAt  time.Time
	FinishedAt time.Time
	Steps      []RunStep
}

// RunJournal persists run records locally.
type RunJournal interface {
	Record(ctx context.Context, run *RunRecord) error
	List(ctx context.Context, limit int) ([]*RunRecord, error)
}
