package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/enderlabs/octoeb/internal/core/plan"
	"github.com/enderlabs/octoeb/internal/ports/secondary"
)

// PlanExecutor runs an operation plan against the platform, strictly in
// order. Steps whose effect already exists are skipped, which makes re-running
// a failed plan safe; on a failure the remaining steps are abandoned and
// reported, never rolled back.
type PlanExecutor struct {
	client secondary.PlatformClient
}

// NewPlanExecutor creates a PlanExecutor.
func NewPlanExecutor(client secondary.PlatformClient) *PlanExecutor {
	return &PlanExecutor{client: client}
}

// Execute runs each step of the plan in sequence and returns the aggregate
// result. Completed steps are preserved in the result even when a later step
// fails, so the operator can see exactly what was applied.
func (e *PlanExecutor) Execute(ctx context.Context, p *plan.Plan) *plan.Result {
	res := &plan.Result{Action: p.Action, Version: p.Version}
	res.Artifacts.Branch = p.Branch

	failed := false
	for _, step := range p.Steps {
		if failed {
			res.Steps = append(res.Steps, plan.StepResult{
				Step:   step,
				Status: plan.StatusSkipped,
				Reason: plan.SkipPriorStepFailed,
			})
			continue
		}

		sr := e.executeOne(ctx, step, res)
		res.Steps = append(res.Steps, sr)
		if sr.Status == plan.StatusFailed {
			failed = true
		}
	}

	return res
}

func (e *PlanExecutor) executeOne(ctx context.Context, step plan.Step, res *plan.Result) plan.StepResult {
	switch s := step.(type) {
	case plan.CreateBranch:
		return e.createBranch(ctx, s, res)
	case plan.CreateTag:
		return e.createTag(ctx, s, res)
	case plan.OpenPullRequest:
		return e.openPullRequest(ctx, s, res)
	case plan.MergePullRequest:
		return e.mergePullRequest(ctx, s, res)
	case plan.PublishRelease:
		return e.publishRelease(ctx, s, res)
	default:
		return failedStep(step, fmt.Errorf("unknown step type: %T", step))
	}
}

func (e *PlanExecutor) createBranch(ctx context.Context, s plan.CreateBranch, res *plan.Result) plan.StepResult {
	existing, err := e.client.GetBranch(ctx, s.Name)
	if err == nil {
		res.Artifacts.Branch = s.Name
		res.Artifacts.BranchURL = existing.URL
		return skippedStep(s, plan.SkipAlreadySatisfied)
	}
	if !errors.Is(err, secondary.ErrNotFound) {
		return failedStep(s, fmt.Errorf("checking branch %s: %w", s.Name, err))
	}

	sha := s.FromSHA
	if sha == "" {
		base, err := e.client.GetBranch(ctx, s.FromRef)
		if err != nil {
			return failedStep(s, fmt.Errorf("resolving base branch %s: %w", s.FromRef, err))
		}
		sha = base.SHA
	}

	ref, err := e.client.CreateBranch(ctx, s.Name, sha)
	if err != nil {
		return failedStep(s, fmt.Errorf("creating branch %s: %w", s.Name, err))
	}
	res.Artifacts.Branch = ref.Name
	res.Artifacts.BranchURL = ref.URL
	return succeededStep(s)
}

func (e *PlanExecutor) createTag(ctx context.Context, s plan.CreateTag, res *plan.Result) plan.StepResult {
	existing, err := e.client.GetTag(ctx, s.Name)
	if err == nil {
		res.Artifacts.Tag = existing.Name
		return skippedStep(s, plan.SkipAlreadySatisfied)
	}
	if !errors.Is(err, secondary.ErrNotFound) {
		return failedStep(s, fmt.Errorf("checking tag %s: %w", s.Name, err))
	}

	sha := s.CommitSHA
	if sha == "" {
		ref, err := e.client.GetBranch(ctx, s.Ref)
		if err != nil {
			return failedStep(s, fmt.Errorf("resolving %s for tag %s: %w", s.Ref, s.Name, err))
		}
		sha = ref.SHA
	}

	ref, err := e.client.CreateTag(ctx, s.Name, sha)
	if err != nil {
		return failedStep(s, fmt.Errorf("creating tag %s: %w", s.Name, err))
	}
	res.Artifacts.Tag = ref.Name
	return succeededStep(s)
}

func (e *PlanExecutor) openPullRequest(ctx context.Context, s plan.OpenPullRequest, res *plan.Result) plan.StepResult {
	existing, err := e.client.ListPullRequests(ctx, s.Target)
	if err != nil {
		return failedStep(s, fmt.Errorf("checking pull requests into %s: %w", s.Target, err))
	}
	for _, pr := range existing {
		if pr.Source == s.Source && pr.Open {
			res.Artifacts.PRNumber = pr.Number
			res.Artifacts.PRURL = pr.URL
			return skippedStep(s, plan.SkipAlreadySatisfied)
		}
	}

	pr, err := e.client.OpenPullRequest(ctx, s.Source, s.Target, s.Title, s.Body)
	if err != nil {
		return failedStep(s, fmt.Errorf("opening pull request %s -> %s: %w", s.Source, s.Target, err))
	}
	res.Artifacts.PRNumber = pr.Number
	res.Artifacts.PRURL = pr.URL
	return succeededStep(s)
}

func (e *PlanExecutor) mergePullRequest(ctx context.Context, s plan.MergePullRequest, res *plan.Result) plan.StepResult {
	number := s.Number
	if number == 0 {
		number = res.Artifacts.PRNumber
	}
	if number == 0 {
		return failedStep(s, errors.New("no pull request to merge"))
	}

	pr, err := e.client.MergePullRequest(ctx, number)
	if err != nil {
		return failedStep(s, fmt.Errorf("merging pull request #%d: %w", number, err))
	}
	res.Artifacts.PRNumber = pr.Number
	res.Artifacts.PRURL = pr.URL
	return succeededStep(s)
}

func (e *PlanExecutor) publishRelease(ctx context.Context, s plan.PublishRelease, res *plan.Result) plan.StepResult {
	existing, err := e.client.GetRelease(ctx, s.Tag)
	if err == nil {
		res.Artifacts.ReleaseURL = existing.URL
		return skippedStep(s, plan.SkipAlreadySatisfied)
	}
	if !errors.Is(err, secondary.ErrNotFound) {
		return failedStep(s, fmt.Errorf("checking release %s: %w", s.Tag, err))
	}

	rel, err := e.client.PublishRelease(ctx, s.Tag, s.Name, s.Notes, s.Prerelease)
	if err != nil {
		return failedStep(s, fmt.Errorf("publishing release %s: %w", s.Name, err))
	}
	res.Artifacts.ReleaseURL = rel.URL
	return succeededStep(s)
}

func succeededStep(step plan.Step) plan.StepResult {
	return plan.StepResult{Step: step, Status: plan.StatusSucceeded}
}

func skippedStep(step plan.Step, reason string) plan.StepResult {
	return plan.StepResult{Step: step, Status: plan.StatusSkipped, Reason: reason}
}

func failedStep(step plan.Step, err error) plan.StepResult {
	return plan.StepResult{Step: step, Status: plan.StatusFailed, Err: err, Reason: err.Error()}
}
