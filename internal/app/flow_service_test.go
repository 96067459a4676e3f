package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enderlabs/octoeb/internal/core/flow"
	"github.com/enderlabs/octoeb/internal/ports/primary"
	"github.com/enderlabs/octoeb/internal/ports/secondary"
)

func newTestService(client *fakePlatform, journal *fakeJournal) *FlowServiceImpl {
	var j secondary.RunJournal
	if journal != nil {
		j = journal
	}
	return NewFlowService(client, j, flow.DefaultPolicy())
}

func TestFlowService_StartReleaseIsIdempotent(t *testing.T) {
	client := newFakePlatform()
	client.addBranch("develop", "dev-head")
	client.addBranch("master", "master-head")
	client.addTag("1.4.0", "tag-sha")
	journal := &fakeJournal{}
	svc := newTestService(client, journal)

	first, err := svc.StartRelease(context.Background(), primary.StartRequest{})
	require.NoError(t, err)
	assert.Equal(t, "1.5.0", first.Version)
	assert.Equal(t, "release/1.5.0", first.Branch)
	require.Len(t, first.Result.Steps, 1)
	assert.False(t, first.Result.AllSkipped())

	ref, ok := client.branches["release/1.5.0"]
	require.True(t, ok)
	assert.Equal(t, "dev-head", ref.SHA)

	// Running start again with the branch in place plans the same version
	// and skips every step.
	second, err := svc.StartRelease(context.Background(), primary.StartRequest{})
	require.NoError(t, err)
	assert.Equal(t, "1.5.0", second.Version)
	assert.True(t, second.Result.AllSkipped())

	require.Len(t, journal.runs, 2)
	assert.Equal(t, "succeeded", journal.runs[0].Outcome)
	assert.Equal(t, "succeeded", journal.runs[1].Outcome)
}

func TestFlowService_StartHotfixCutsFromStableBranch(t *testing.T) {
	client := newFakePlatform()
	client.addBranch("develop", "dev-head")
	client.addBranch("master", "master-head")
	client.addTag("1.4.2", "tag-sha")
	svc := newTestService(client, &fakeJournal{})

	res, err := svc.StartHotfix(context.Background(), primary.StartRequest{})
	require.NoError(t, err)
	assert.Equal(t, "1.4.3", res.Version)
	assert.Equal(t, "hotfix/1.4.3", res.Branch)

	ref, ok := client.branches["hotfix/1.4.3"]
	require.True(t, ok)
	assert.Equal(t, "master-head", ref.SHA)
}

func TestFlowService_QARejectedWithoutBranch(t *testing.T) {
	client := newFakePlatform()
	client.addBranch("develop", "dev-head")
	client.addBranch("master", "master-head")
	journal := &fakeJournal{}
	svc := newTestService(client, journal)

	res, err := svc.QA(context.Background(), primary.TargetRequest{Version: "9.9.9"})
	require.ErrorIs(t, err, flow.ErrInvalidTransition)
	assert.Nil(t, res)

	// A rejected transition must not touch the platform or the journal.
	assert.Empty(t, client.mutations)
	assert.Empty(t, journal.runs)
}

func TestFlowService_QAOpensPullRequestWithChangelog(t *testing.T) {
	client := newFakePlatform()
	client.addBranch("develop", "dev-head")
	client.addBranch("master", "master-head")
	client.addBranch("release/1.5.0", "rel-head")
	client.commits = []secondary.Commit{
		{SHA: "abcdef1234567", Message: "feat(api): add widget endpoint\n\nlonger body"},
		{SHA: "1234567abcdef", Message: "fix: close leaked connections"},
	}
	svc := newTestService(client, &fakeJournal{})

	res, err := svc.QA(context.Background(), primary.TargetRequest{Version: "1.5.0"})
	require.NoError(t, err)
	assert.False(t, res.Result.AllSkipped())

	require.Len(t, client.prs, 1)
	pr := client.prs[0]
	assert.Equal(t, "release/1.5.0", pr.Source)
	assert.Equal(t, "master", pr.Target)
	assert.Contains(t, pr.Title, "1.5.0")
	assert.Equal(t, pr.Number, res.Result.Artifacts.PRNumber)
}

func TestFlowService_ReleaseAfterMergedQA(t *testing.T) {
	client := newFakePlatform()
	client.addBranch("develop", "dev-head")
	client.addBranch("master", "master-head")
	client.addBranch("release/1.5.0", "rel-head")
	client.addTag("1.4.0", "old-tag-sha")
	client.prs = append(client.prs, secondary.PullRequest{
		Number: 3,
		Source: "release/1.5.0",
		Target: "master",
		Merged: true,
	})
	journal := &fakeJournal{}
	svc := newTestService(client, journal)

	res, err := svc.Release(context.Background(), primary.TargetRequest{Version: "1.5.0"})
	require.NoError(t, err)
	assert.Equal(t, "1.5.0", res.Result.Artifacts.Tag)
	assert.Equal(t, "master-head", client.tags["1.5.0"].SHA)

	rel, err := client.GetRelease(context.Background(), "1.5.0")
	require.NoError(t, err)
	assert.Equal(t, "release-1.5.0", rel.Name)

	require.Len(t, journal.runs, 1)
	assert.Equal(t, "release", journal.runs[0].Action)
	assert.Equal(t, "succeeded", journal.runs[0].Outcome)
}

func TestFlowService_ReleaseRecordsFailedRun(t *testing.T) {
	client := newFakePlatform()
	client.addBranch("develop", "dev-head")
	client.addBranch("master", "master-head")
	client.addBranch("release/1.5.0", "rel-head")
	client.prs = append(client.prs, secondary.PullRequest{
		Number: 3,
		Source: "release/1.5.0",
		Target: "master",
		Merged: true,
	})
	client.fail("CreateTag", secondary.ErrPlatformUnavailable)
	journal := &fakeJournal{}
	svc := newTestService(client, journal)

	res, err := svc.Release(context.Background(), primary.TargetRequest{Version: "1.5.0"})
	require.ErrorIs(t, err, secondary.ErrPlatformUnavailable)
	require.NotNil(t, res)
	assert.True(t, res.Result.Failed())

	require.Len(t, journal.runs, 1)
	assert.Equal(t, "failed", journal.runs[0].Outcome)
}

func TestFlowService_Versions(t *testing.T) {
	client := newFakePlatform()
	client.releases = []secondary.Release{
		{TagName: "1.6.0-rc.1", Prerelease: true},
		{TagName: "1.5.0"},
		{TagName: "1.4.0"},
	}
	svc := newTestService(client, nil)

	info, err := svc.Versions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.5.0", info.Release)
	assert.Equal(t, "1.6.0-rc.1", info.Prerelease)
}

func TestFlowService_HistoryWithoutJournal(t *testing.T) {
	svc := newTestService(newFakePlatform(), nil)
	runs, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, runs)
}
