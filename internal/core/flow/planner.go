package flow

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/enderlabs/octoeb/internal/core/plan"
	"github.com/enderlabs/octoeb/internal/core/snapshot"
	"github.com/enderlabs/octoeb/internal/core/version"
)

// Action is a requested flow transition.
type Action string

const (
	ActionStartRelease Action = "start-release"
	ActionStartHotfix  Action = "start-hotfix"
	ActionQA           Action = "qa"
	ActionRelease      Action = "release"
)

// Policy carries the team conventions the engine plans against.
type Policy struct {
	// RequireQA gates the release transition on a merged QA pull request.
	// With RequireQA off, an open QA pull request is merged as part of the
	// release plan instead of blocking it.
	RequireQA bool

	// DevelopBranch is the base for new release branches.
	DevelopBranch string

	// MasterBranch is the stable branch QA pull requests target and hotfix
	// branches are cut from.
	MasterBranch string
}

// DefaultPolicy returns the conventional gitflow-style policy.
func DefaultPolicy() Policy {
	return Policy{RequireQA: true, DevelopBranch: "develop", MasterBranch: "master"}
}

// Request describes one requested transition.
type Request struct {
	Action Action

	// Version is the explicit version override for start actions and the
	// required target version for qa and release.
	Version string

	// Line selects the major.minor line for start-hotfix when no explicit
	// version is given. Empty means the line of the highest tag.
	Line string

	// Notes is the precomputed release-notes markdown attached to QA pull
	// request bodies and published releases. The engine treats it as opaque.
	Notes string
}

// BuildPlan validates the requested transition against the snapshot and emits
// the ordered operation plan. It returns ErrInvalidTransition for actions not
// legal in the derived state, version.ErrVersionConflict for bad overrides,
// and snapshot.ErrAmbiguousState for contradictory remote state. On any
// error no plan is produced.
func BuildPlan(snap *snapshot.Snapshot, req Request, pol Policy) (*plan.Plan, error) {
	switch req.Action {
	case ActionStartRelease:
		return planStart(snap, req, pol, snapshot.BranchRelease)
	case ActionStartHotfix:
		return planStart(snap, req, pol, snapshot.BranchHotfix)
	case ActionQA:
		return planQA(snap, req, pol)
	case ActionRelease:
		return planRelease(snap, req, pol)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, req.Action)
	}
}

func planStart(snap *snapshot.Snapshot, req Request, pol Policy, typ snapshot.BranchType) (*plan.Plan, error) {
	next, err := nextVersion(snap, req, typ)
	if err != nil {
		return nil, err
	}

	existing, err := snap.BranchFor(next)
	if err != nil {
		return nil, err
	}

	guard := CanStart(StartContext{
		BranchType:     string(typ),
		Version:        next.String(),
		BranchExists:   existing != nil,
		ConflictBranch: conflictBranch(snap, typ, next),
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	base := pol.DevelopBranch
	if typ == snapshot.BranchHotfix {
		base = pol.MasterBranch
	}

	return &plan.Plan{
		Action:  string(req.Action),
		Version: next.String(),
		Branch:  snapshot.BranchName(typ, next),
		Steps: []plan.Step{
			plan.CreateBranch{
				Name:    snapshot.BranchName(typ, next),
				FromRef: base,
				FromSHA: snap.Heads[base],
			},
		},
	}, nil
}

func planQA(snap *snapshot.Snapshot, req Request, pol Policy) (*plan.Plan, error) {
	v, err := targetVersion(req)
	if err != nil {
		return nil, err
	}

	line, err := DeriveLine(snap, v, pol.MasterBranch)
	if err != nil {
		return nil, err
	}

	guard := CanQA(QAContext{
		Version:      v.String(),
		BranchExists: line.Branch != nil,
		Released:     line.State == StateReleased,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	p := &plan.Plan{
		Action:  string(req.Action),
		Version: v.String(),
		Branch:  line.Branch.Name,
	}

	// Re-running qa while the pull request is open (or already merged) is an
	// idempotent no-op.
	if line.QAPR != nil {
		return p, nil
	}

	p.Steps = []plan.Step{
		plan.OpenPullRequest{
			Source: line.Branch.Name,
			Target: pol.MasterBranch,
			Title:  fmt.Sprintf("release-%s", v),
			Body:   req.Notes,
		},
	}
	return p, nil
}

func planRelease(snap *snapshot.Snapshot, req Request, pol Policy) (*plan.Plan, error) {
	v, err := targetVersion(req)
	if err != nil {
		return nil, err
	}

	line, err := DeriveLine(snap, v, pol.MasterBranch)
	if err != nil {
		return nil, err
	}

	ctx := ReleaseContext{
		Version:      v.String(),
		BranchExists: line.Branch != nil,
		Released:     line.State == StateReleased,
		RequireQA:    pol.RequireQA,
	}
	if line.QAPR != nil {
		ctx.PRExists = true
		ctx.PRMerged = line.QAPR.Merged
		ctx.PRNumber = line.QAPR.Number
	}
	if err := CanRelease(ctx).Error(); err != nil {
		return nil, err
	}

	p := &plan.Plan{
		Action:  string(req.Action),
		Version: v.String(),
	}
	if line.Branch != nil {
		p.Branch = line.Branch.Name
	}

	// With QA exempt, an open QA pull request is merged as part of the plan;
	// the tag then lands on the post-merge head of the stable branch.
	if !pol.RequireQA && line.QAPR != nil && line.QAPR.Open {
		p.Steps = append(p.Steps, plan.MergePullRequest{Number: line.QAPR.Number})
	}

	tag := plan.CreateTag{Name: v.String(), Ref: pol.MasterBranch}
	switch {
	case len(p.Steps) > 0:
		// A merge in this plan moves the stable head; resolve at execution.
	case line.QAPR != nil && line.QAPR.Merged:
		tag.CommitSHA = snap.Heads[pol.MasterBranch]
	case line.Branch != nil && !pol.RequireQA && line.QAPR == nil:
		// QA-exempt release straight from the flow branch.
		tag.CommitSHA = line.Branch.SHA
		tag.Ref = line.Branch.Name
	default:
		tag.CommitSHA = snap.Heads[pol.MasterBranch]
	}

	p.Steps = append(p.Steps,
		tag,
		plan.PublishRelease{
			Tag:   v.String(),
			Name:  fmt.Sprintf("release-%s", v),
			Notes: req.Notes,
		},
	)
	return p, nil
}

func nextVersion(snap *snapshot.Snapshot, req Request, typ snapshot.BranchType) (*semver.Version, error) {
	tags := snap.TagNames()

	if typ == snapshot.BranchRelease {
		return version.NextRelease(tags, req.Version)
	}

	if req.Version == "" {
		return version.NextHotfix(tags, req.Line)
	}

	v, err := semver.NewVersion(req.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", req.Version, err)
	}
	if highest := version.HighestOnLine(tags, v.Major(), v.Minor()); highest != nil && !v.GreaterThan(highest) {
		return nil, fmt.Errorf("%w: requested %s is not greater than latest tag %s on its line",
			version.ErrVersionConflict, v, highest)
	}
	return v, nil
}

func targetVersion(req Request) (*semver.Version, error) {
	if req.Version == "" {
		return nil, fmt.Errorf("%w: a target version is required", ErrInvalidTransition)
	}
	v, err := semver.NewVersion(req.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", req.Version, err)
	}
	return v, nil
}

func conflictBranch(snap *snapshot.Snapshot, typ snapshot.BranchType, next *semver.Version) string {
	for _, b := range snap.InFlight(typ) {
		if b.Version.Equal(next) {
			continue
		}
		// Hotfix lines are independent; only a hotfix on the same
		// major.minor line conflicts. Releases conflict globally.
		if typ == snapshot.BranchHotfix &&
			(b.Version.Major() != next.Major() || b.Version.Minor() != next.Minor()) {
			continue
		}
		return b.Name
	}
	return ""
}
