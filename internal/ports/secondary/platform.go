// Package secondary defines the driven ports: capability contracts the flow
// depends on but does not implement.
package secondary

import (
	"context"
	"errors"
)

// Sentinel errors adapters translate platform failures into. Callers check
// them with errors.Is; the underlying cause stays attached via wrapping.
var (
	// ErrNotFound is returned when a ref, pull request, or release does not
	// exist on the platform.
	ErrNotFound = errors.New("not found")

	// ErrPlatformConflict is returned when the platform rejects an operation
	// because of a concurrent mutation, for example a ref created by a racing
	// invocation.
	ErrPlatformConflict = errors.New("platform conflict")

	// ErrPlatformUnavailable is returned for transient transport or auth
	// failures, including timeouts. Safe to retry.
	ErrPlatformUnavailable = errors.New("platform unavailable")
)

// Ref is a branch or tag on the platform.
type Ref struct {
	Name string
	SHA  string
	URL  string
}

// PullRequest is the platform's view of a pull request.
type PullRequest struct {
	Number int
	Title  string
	Source string
	Target string
	URL    string
	Open   bool
	Merged bool
}

// Commit is one commit returned by a comparison.
type Commit struct {
	SHA     string
	Message string
}

// Release is a platform release object.
type Release struct {
	TagName    string
	Name       string
	URL        string
	Prerelease bool
}

// PlatformClient is the capability contract for the hosted Git platform. All
// calls carry a bounded per-call timeout owned by the implementation; a
// timeout reads as ErrPlatformUnavailable.
type PlatformClient interface {
	ListBranches(ctx context.Context, prefix string) ([]Ref, error)
	ListTags(ctx context.Context) ([]Ref, error)
	ListPullRequests(ctx context.Context, target string) ([]PullRequest, error)
	ListReleases(ctx context.Context) ([]Release, error)

	GetBranch(ctx context.Context, name string) (*Ref, error)
	GetTag(ctx context.Context, name string) (*Ref, error)
	GetRelease(ctx context.Context, tag string) (*Release, error)
	CompareCommits(ctx context.Context, base, head string) ([]Commit, error)

	CreateBranch(ctx context.Context, name, fromSHA string) (*Ref, error)
	CreateTag(ctx context.Context, name, sha string) (*Ref, error)
	OpenPullRequest(ctx context.Context, source, target, title, body string) (*PullRequest, error)
	MergePullRequest(ctx context.Context, number int) (*PullRequest, error)
	PublishRelease(ctx context.Context, tag, name, notes string, prerelease bool) (*Release, error)
}
