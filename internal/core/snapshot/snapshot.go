// Package snapshot defines the read-only, point-in-time view of remote
// repository state that the release flow reasons about. Values here are
// constructed once per invocation and never mutated.
package snapshot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/enderlabs/octoeb/internal/core/version"
)

// ErrAmbiguousState is returned when the remote state is contradictory, for
// example two branches naming the same version. The flow refuses to guess.
var ErrAmbiguousState = errors.New("ambiguous repository state")

// BranchType distinguishes the two flow branch families.
type BranchType string

const (
	BranchRelease BranchType = "release"
	BranchHotfix  BranchType = "hotfix"
)

// Ref is a named remote ref and the commit it points at.
type Ref struct {
	Name string
	SHA  string
}

// FlowBranch is a branch matching the release/hotfix naming convention, with
// the version parsed out of its name.
type FlowBranch struct {
	Name    string
	Type    BranchType
	Version *semver.Version
	SHA     string
}

// PullRequest is an open or merged pull request relevant to the flow.
type PullRequest struct {
	Number int
	Title  string
	Source string
	Target string
	URL    string
	Open   bool
	Merged bool
}

// Snapshot is the normalized repository state a single invocation works from.
type Snapshot struct {
	Branches     []FlowBranch
	Tags         []Ref
	PullRequests []PullRequest

	// Heads maps base branch names (develop, master) to their commit SHA.
	Heads map[string]string
}

// ParseFlowBranch parses a branch name against the naming convention
// (release/x.y.z or hotfix/x.y.z). Branches that do not match are simply not
// flow branches; that is not an error.
func ParseFlowBranch(name, sha string) (FlowBranch, bool) {
	var typ BranchType
	var rest string
	switch {
	case strings.HasPrefix(name, string(BranchRelease)+"/"):
		typ = BranchRelease
		rest = strings.TrimPrefix(name, string(BranchRelease)+"/")
	case strings.HasPrefix(name, string(BranchHotfix)+"/"):
		typ = BranchHotfix
		rest = strings.TrimPrefix(name, string(BranchHotfix)+"/")
	default:
		return FlowBranch{}, false
	}

	v, err := semver.NewVersion(rest)
	if err != nil {
		return FlowBranch{}, false
	}

	return FlowBranch{Name: name, Type: typ, Version: v, SHA: sha}, true
}

// BranchName returns the conventional branch name for a version.
func BranchName(typ BranchType, v *semver.Version) string {
	return fmt.Sprintf("%s/%s", typ, v)
}

// TagNames returns the raw tag names in the snapshot.
func (s *Snapshot) TagNames() []string {
	names := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		names = append(names, t.Name)
	}
	return names
}

// HasTag reports whether a tag for the given version exists, under any of the
// accepted tag naming forms.
func (s *Snapshot) HasTag(v *semver.Version) bool {
	for _, t := range s.Tags {
		if tv, ok := version.ParseTag(t.Name); ok && tv.Equal(v) {
			return true
		}
	}
	return false
}

// BranchFor returns the flow branch for a version, matching on the
// major.minor.patch core so that stray prerelease-suffixed duplicates are
// caught. Exactly one match is required; more than one is ErrAmbiguousState.
func (s *Snapshot) BranchFor(v *semver.Version) (*FlowBranch, error) {
	var found *FlowBranch
	for i := range s.Branches {
		b := &s.Branches[i]
		if !sameCore(b.Version, v) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: branches %s and %s both name version %d.%d.%d",
				ErrAmbiguousState, found.Name, b.Name, v.Major(), v.Minor(), v.Patch())
		}
		found = b
	}
	return found, nil
}

// InFlight returns the flow branches of the given type that have not been
// released yet (no tag exists for their version).
func (s *Snapshot) InFlight(typ BranchType) []FlowBranch {
	var out []FlowBranch
	for _, b := range s.Branches {
		if b.Type == typ && !s.HasTag(b.Version) {
			out = append(out, b)
		}
	}
	return out
}

// PRFor returns the pull request from source into target, preferring an open
// one over a merged one. Returns nil when none exists.
func (s *Snapshot) PRFor(source, target string) *PullRequest {
	var merged *PullRequest
	for i := range s.PullRequests {
		pr := &s.PullRequests[i]
		if pr.Source != source || pr.Target != target {
			continue
		}
		if pr.Open {
			return pr
		}
		if pr.Merged && merged == nil {
			merged = pr
		}
	}
	return merged
}

// sameCore compares two versions on major.minor.patch only.
func sameCore(a, b *semver.Version) bool {
	return a.Major() == b.Major() && a.Minor() == b.Minor() && a.Patch() == b.Patch()
}
