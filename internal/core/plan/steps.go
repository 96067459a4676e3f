// Package plan defines platform operations as data. A Plan is the ordered
// sequence of remote operations the flow engine decides must run; steps
// describe what should happen, not how. The executor in the app layer is the
// only place the described I/O actually happens.
package plan

import "fmt"

// Step is the base interface for all plan steps.
type Step interface {
	// StepType returns a string identifier for the step type.
	StepType() string
	// Describe returns a short human-readable summary for result tables.
	Describe() string
}

// CreateBranch creates a remote branch from a base ref.
type CreateBranch struct {
	Name    string
	FromRef string
	FromSHA string
}

func (s CreateBranch) StepType() string { return "create-branch" }
func (s CreateBranch) Describe() string {
	return fmt.Sprintf("create branch %s from %s", s.Name, s.FromRef)
}

// CreateTag creates a lightweight tag at a commit. When CommitSHA is empty
// the executor resolves Ref at execution time; that is required when an
// earlier step in the same plan (a merge) moves the ref.
type CreateTag struct {
	Name      string
	CommitSHA string
	Ref       string
}

func (s CreateTag) StepType() string { return "create-tag" }
func (s CreateTag) Describe() string {
	return fmt.Sprintf("create tag %s", s.Name)
}

// OpenPullRequest opens a pull request from Source into Target.
type OpenPullRequest struct {
	Source string
	Target string
	Title  string
	Body   string
}

func (s OpenPullRequest) StepType() string { return "open-pull-request" }
func (s OpenPullRequest) Describe() string {
	return fmt.Sprintf("open pull request %s -> %s", s.Source, s.Target)
}

// MergePullRequest merges a pull request by number. A zero Number means the
// pull request opened earlier in the same plan.
type MergePullRequest struct {
	Number int
}

func (s MergePullRequest) StepType() string { return "merge-pull-request" }
func (s MergePullRequest) Describe() string {
	if s.Number == 0 {
		return "merge pull request"
	}
	return fmt.Sprintf("merge pull request #%d", s.Number)
}

// PublishRelease publishes a platform release object for a tag.
type PublishRelease struct {
	Tag        string
	Name       string
	Notes      string
	Prerelease bool
}

func (s PublishRelease) StepType() string { return "publish-release" }
func (s PublishRelease) Describe() string {
	return fmt.Sprintf("publish release %s", s.Name)
}

// Plan is the ordered operation sequence for one flow transition. Produced
// once by the engine, consumed once by the executor, immutable in between.
type Plan struct {
	Action  string
	Version string
	Branch  string
	Steps   []Step
}
