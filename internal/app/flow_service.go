package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/enderlabs/octoeb/internal/core/flow"
	"github.com/enderlabs/octoeb/internal/core/notes"
	"github.com/enderlabs/octoeb/internal/core/plan"
	"github.com/enderlabs/octoeb/internal/core/snapshot"
	"github.com/enderlabs/octoeb/internal/core/version"
	"github.com/enderlabs/octoeb/internal/ports/primary"
	"github.com/enderlabs/octoeb/internal/ports/secondary"
)

// FlowServiceImpl implements the FlowService port: read a fresh snapshot,
// build the plan with the pure engine, execute it, and journal the run.
type FlowServiceImpl struct {
	client   secondary.PlatformClient
	journal  secondary.RunJournal
	pol      flow.Policy
	reader   *SnapshotReader
	executor *PlanExecutor
}

// NewFlowService creates a FlowService with injected dependencies. The
// journal may be nil; runs then simply go unrecorded.
func NewFlowService(client secondary.PlatformClient, journal secondary.RunJournal, pol flow.Policy) *FlowServiceImpl {
	return &FlowServiceImpl{
		client:   client,
		journal:  journal,
		pol:      pol,
		reader:   NewSnapshotReader(client, pol),
		executor: NewPlanExecutor(client),
	}
}

// StartRelease cuts a new release branch for the next minor version.
func (s *FlowServiceImpl) StartRelease(ctx context.Context, req primary.StartRequest) (*primary.FlowResult, error) {
	return s.run(ctx, flow.Request{Action: flow.ActionStartRelease, Version: req.Version})
}

// StartHotfix cuts a new hotfix branch for the next patch on a line.
func (s *FlowServiceImpl) StartHotfix(ctx context.Context, req primary.StartRequest) (*primary.FlowResult, error) {
	return s.run(ctx, flow.Request{Action: flow.ActionStartHotfix, Version: req.Version, Line: req.Line})
}

// QA opens the QA pull request for a started version, with the changelog
// between the stable branch and the flow branch as its body.
func (s *FlowServiceImpl) QA(ctx context.Context, req primary.TargetRequest) (*primary.FlowResult, error) {
	return s.run(ctx, flow.Request{Action: flow.ActionQA, Version: req.Version})
}

// Release tags the version and publishes the platform release with notes
// covering everything since the previous release.
func (s *FlowServiceImpl) Release(ctx context.Context, req primary.TargetRequest) (*primary.FlowResult, error) {
	return s.run(ctx, flow.Request{Action: flow.ActionRelease, Version: req.Version})
}

func (s *FlowServiceImpl) run(ctx context.Context, freq flow.Request) (*primary.FlowResult, error) {
	started := time.Now()

	snap, err := s.reader.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading repository snapshot: %w", err)
	}

	freq.Notes, err = s.buildNotes(ctx, snap, freq)
	if err != nil {
		return nil, err
	}

	p, err := flow.BuildPlan(snap, freq, s.pol)
	if err != nil {
		return nil, err
	}

	res := s.executor.Execute(ctx, p)
	s.record(ctx, p, res, started)

	fr := &primary.FlowResult{
		Action:  p.Action,
		Version: p.Version,
		Branch:  p.Branch,
		Result:  res,
	}
	if res.Failed() {
		return fr, fmt.Errorf("%s %s: %w", p.Action, p.Version, res.FirstError())
	}
	return fr, nil
}

// buildNotes computes the release-notes markdown for transitions that carry
// one. QA compares the stable branch to the flow branch; release compares the
// previous release tag to the stable branch, as the original flow did.
func (s *FlowServiceImpl) buildNotes(ctx context.Context, snap *snapshot.Snapshot, freq flow.Request) (string, error) {
	var base, head string

	switch freq.Action {
	case flow.ActionQA:
		b := branchForRequest(snap, freq)
		if b == nil {
			return "", nil
		}
		base, head = s.pol.MasterBranch, b.Name
	case flow.ActionRelease:
		prevTag := highestTagName(snap)
		if prevTag == "" {
			return "", nil
		}
		base, head = prevTag, s.pol.MasterBranch
	default:
		return "", nil
	}

	commits, err := s.client.CompareCommits(ctx, base, head)
	if err != nil {
		return "", flow.WrapErrorf(err, "building changelog %s..%s", base, head)
	}

	entries := make([]notes.Commit, 0, len(commits))
	for _, c := range commits {
		subject, _, _ := strings.Cut(c.Message, "\n")
		entries = append(entries, notes.Commit{SHA: c.SHA, Subject: subject})
	}
	return notes.Build(entries), nil
}

// Versions reports the current release and pre-release on the platform.
func (s *FlowServiceImpl) Versions(ctx context.Context) (*primary.VersionsInfo, error) {
	releases, err := s.client.ListReleases(ctx)
	if err != nil {
		return nil, flow.WrapError(err, "listing releases")
	}

	info := &primary.VersionsInfo{}
	for _, rel := range releases {
		switch {
		case rel.Prerelease && info.Prerelease == "":
			info.Prerelease = rel.TagName
		case !rel.Prerelease && info.Release == "":
			info.Release = rel.TagName
		}
		if info.Release != "" && info.Prerelease != "" {
			break
		}
	}
	return info, nil
}

// History lists past runs from the local journal, newest first.
func (s *FlowServiceImpl) History(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.List(ctx, limit)
}

// record journals the run. Journal failures are reported but never fail the
// invocation; the journal is an operator convenience, not the source of truth.
func (s *FlowServiceImpl) record(ctx context.Context, p *plan.Plan, res *plan.Result, started time.Time) {
	if s.journal == nil {
		return
	}

	outcome := "succeeded"
	if res.Failed() {
		outcome = "failed"
	}

	run := &secondary.RunRecord{
		Action:     p.Action,
		Version:    p.Version,
		Branch:     p.Branch,
		Outcome:    outcome,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	for i, sr := range res.Steps {
		detail := sr.Reason
		run.Steps = append(run.Steps, secondary.RunStep{
			Seq:         i + 1,
			Description: sr.Step.Describe(),
			Status:      string(sr.Status),
			Detail:      detail,
		})
	}

	if err := s.journal.Record(ctx, run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to journal run: %v\n", err)
	}
}

// highestTagName returns the platform name of the highest version tag, so
// comparisons use the tag as it actually exists remotely.
func highestTagName(snap *snapshot.Snapshot) string {
	var name string
	var highest *semver.Version
	for _, t := range snap.Tags {
		v, ok := version.ParseTag(t.Name)
		if !ok {
			continue
		}
		if highest == nil || v.GreaterThan(highest) {
			highest = v
			name = t.Name
		}
	}
	return name
}

func branchForRequest(snap *snapshot.Snapshot, freq flow.Request) *snapshot.FlowBranch {
	if freq.Version == "" {
		return nil
	}
	v, ok := version.ParseTag(freq.Version)
	if !ok {
		return nil
	}
	b, err := snap.BranchFor(v)
	if err != nil {
		return nil
	}
	return b
}
