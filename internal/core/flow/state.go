package flow

import (
	"github.com/Masterminds/semver/v3"

	"github.com/enderlabs/octoeb/internal/core/snapshot"
)

// State is the derived position of one release line in the flow. It is
// computed fresh from the snapshot on every invocation; the platform is the
// single source of truth and nothing is persisted locally.
type State string

const (
	StateIdle       State = "idle"
	StateInProgress State = "in-progress"
	StateInQA       State = "in-qa"
	StateReleased   State = "released"
)

// Line describes where a single version sits in the flow.
type Line struct {
	State  State
	Branch *snapshot.FlowBranch
	QAPR   *snapshot.PullRequest
}

// DeriveLine computes the flow state of a version from the snapshot. The QA
// stage is modeled as a pull request from the flow branch into qaTarget.
func DeriveLine(snap *snapshot.Snapshot, v *semver.Version, qaTarget string) (Line, error) {
	branch, err := snap.BranchFor(v)
	if err != nil {
		return Line{}, err
	}

	if snap.HasTag(v) {
		return Line{State: StateReleased, Branch: branch}, nil
	}
	if branch == nil {
		return Line{State: StateIdle}, nil
	}

	pr := snap.PRFor(branch.Name, qaTarget)
	if pr != nil {
		return Line{State: StateInQA, Branch: branch, QAPR: pr}, nil
	}
	return Line{State: StateInProgress, Branch: branch}, nil
}
