// Package app contains the application layer: the snapshot reader, the flow
// service, and the plan executor. All I/O against the platform happens here.
package app

import (
	"context"
	"errors"

	"github.com/enderlabs/octoeb/internal/core/flow"
	"github.com/enderlabs/octoeb/internal/core/snapshot"
	"github.com/enderlabs/octoeb/internal/ports/secondary"
)

// SnapshotReader builds the normalized repository snapshot the engine plans
// against. One fresh read per invocation; the platform is the only source of
// truth.
type SnapshotReader struct {
	client secondary.PlatformClient
	pol    flow.Policy
}

// NewSnapshotReader creates a SnapshotReader.
func NewSnapshotReader(client secondary.PlatformClient, pol flow.Policy) *SnapshotReader {
	return &SnapshotReader{client: client, pol: pol}
}

// Read queries branches, tags, open pull requests, and base branch heads.
// Branches outside the release/hotfix naming convention are ignored.
func (r *SnapshotReader) Read(ctx context.Context) (*snapshot.Snapshot, error) {
	snap := &snapshot.Snapshot{Heads: map[string]string{}}

	for _, prefix := range []string{string(snapshot.BranchRelease) + "/", string(snapshot.BranchHotfix) + "/"} {
		refs, err := r.client.ListBranches(ctx, prefix)
		if err != nil {
			return nil, flow.WrapErrorf(err, "listing %s branches", prefix)
		}
		for _, ref := range refs {
			if b, ok := snapshot.ParseFlowBranch(ref.Name, ref.SHA); ok {
				snap.Branches = append(snap.Branches, b)
			}
		}
	}

	tags, err := r.client.ListTags(ctx)
	if err != nil {
		return nil, flow.WrapError(err, "listing tags")
	}
	for _, t := range tags {
		snap.Tags = append(snap.Tags, snapshot.Ref{Name: t.Name, SHA: t.SHA})
	}

	prs, err := r.client.ListPullRequests(ctx, r.pol.MasterBranch)
	if err != nil {
		return nil, flow.WrapError(err, "listing pull requests")
	}
	for _, pr := range prs {
		snap.PullRequests = append(snap.PullRequests, snapshot.PullRequest{
			Number: pr.Number,
			Title:  pr.Title,
			Source: pr.Source,
			Target: pr.Target,
			URL:    pr.URL,
			Open:   pr.Open,
			Merged: pr.Merged,
		})
	}

	for _, name := range []string{r.pol.DevelopBranch, r.pol.MasterBranch} {
		ref, err := r.client.GetBranch(ctx, name)
		if errors.Is(err, secondary.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, flow.WrapErrorf(err, "resolving branch %s", name)
		}
		snap.Heads[name] = ref.SHA
	}

	return snap, nil
}
