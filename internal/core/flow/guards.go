package flow

import "fmt"

// GuardResult represents the outcome of a transition guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an ErrInvalidTransition if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidTransition, r.Reason)
}

// StartContext provides context for start-release / start-hotfix guards.
type StartContext struct {
	BranchType     string // "release" or "hotfix"
	Version        string
	BranchExists   bool   // a branch for this exact version already exists
	ConflictBranch string // an unreleased branch of the same type on the same scope, if any
}

// QAContext provides context for the qa transition.
type QAContext struct {
	Version      string
	BranchExists bool
	Released     bool
}

// ReleaseContext provides context for the release transition.
type ReleaseContext struct {
	Version      string
	BranchExists bool
	Released     bool // tag already exists; release re-run is idempotent
	RequireQA    bool
	PRExists     bool
	PRMerged     bool
	PRNumber     int
}

// CanStart evaluates whether a new flow branch may be cut.
// Rules:
// - Re-invoking start for a version whose branch exists is allowed (idempotent).
// - Otherwise no unreleased branch of the same type may be in flight on the
//   same scope (any line for releases, the same line for hotfixes).
func CanStart(ctx StartContext) GuardResult {
	if ctx.BranchExists {
		return GuardResult{Allowed: true}
	}

	if ctx.ConflictBranch != "" {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("a %s is already in flight on branch %s; release or remove it before starting %s",
				ctx.BranchType, ctx.ConflictBranch, ctx.Version),
		}
	}

	return GuardResult{Allowed: true}
}

// CanQA evaluates whether a branch can enter the QA stage.
// Rules:
// - A branch created by a prior start must exist.
// - The version must not already be released.
func CanQA(ctx QAContext) GuardResult {
	if !ctx.BranchExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("no release or hotfix branch exists for %s; run start first", ctx.Version),
		}
	}

	if ctx.Released {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("version %s is already released", ctx.Version),
		}
	}

	return GuardResult{Allowed: true}
}

// CanRelease evaluates whether a version can be tagged and published.
// Rules:
// - A released version may be re-released (idempotent; the executor skips).
// - The flow branch must exist.
// - When QA is required, the QA pull request must exist and be merged.
func CanRelease(ctx ReleaseContext) GuardResult {
	if ctx.Released {
		return GuardResult{Allowed: true}
	}

	if !ctx.BranchExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("no release or hotfix branch exists for %s; run start first", ctx.Version),
		}
	}

	if ctx.RequireQA {
		if !ctx.PRExists {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("version %s has not entered QA; run qa first", ctx.Version),
			}
		}
		if !ctx.PRMerged {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("QA pull request #%d for %s is not merged", ctx.PRNumber, ctx.Version),
			}
		}
	}

	return GuardResult{Allowed: true}
}
