// Package primary defines the driving ports: the interfaces the CLI talks to.
package primary

import (
	"context"

	"github.com/enderlabs/octoeb/internal/core/plan"
	"github.com/enderlabs/octoeb/internal/ports/secondary"
)

// FlowService is the primary port for release-flow operations. Each call
// reads a fresh snapshot, plans the transition, and executes the plan.
type FlowService interface {
	// StartRelease cuts a new release branch for the next minor version.
	StartRelease(ctx context.Context, req StartRequest) (*FlowResult, error)

	// StartHotfix cuts a new hotfix branch for the next patch on a line.
	StartHotfix(ctx context.Context, req StartRequest) (*FlowResult, error)

	// QA opens the QA pull request for a started version.
	QA(ctx context.Context, req TargetRequest) (*FlowResult, error)

	// Release tags and publishes a version that passed QA.
	Release(ctx context.Context, req TargetRequest) (*FlowResult, error)

	// Versions reports the current release and pre-release on the platform.
	Versions(ctx context.Context) (*VersionsInfo, error)

	// History lists past runs from the local journal, newest first.
	History(ctx context.Context, limit int) ([]*secondary.RunRecord, error)
}

// StartRequest carries parameters for start-release and start-hotfix.
type StartRequest struct {
	// Version is an optional explicit version override.
	Version string

	// Line selects the major.minor line for hotfixes. Ignored for releases.
	Line string
}

// TargetRequest carries the required target version for qa and release.
type TargetRequest struct {
	Version string
}

// FlowResult is the outcome of one flow invocation.
type FlowResult struct {
	Action  string
	Version string
	Branch  string
	Result  *plan.Result
}

// VersionsInfo is the current platform release state.
type VersionsInfo struct {
	Release    string
	Prerelease string
}
