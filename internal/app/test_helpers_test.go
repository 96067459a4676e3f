package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/enderlabs/octoeb/internal/ports/secondary"
)

var _ secondary.PlatformClient = (*fakePlatform)(nil)
var _ secondary.RunJournal = (*fakeJournal)(nil)

// fakePlatform is an in-memory PlatformClient. Failures are injected per
// method name; every mutating call is recorded so tests can assert that
// rejected transitions issue zero platform mutations.
type fakePlatform struct {
	mu sync.Mutex

	branches map[string]secondary.Ref
	tags     map[string]secondary.Ref
	prs      []secondary.PullRequest
	releases []secondary.Release
	commits  []secondary.Commit

	failOn    map[string]error
	mutations []string
	nextPR    int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		branches: make(map[string]secondary.Ref),
		tags:     make(map[string]secondary.Ref),
		failOn:   make(map[string]error),
		nextPR:   100,
	}
}

func (f *fakePlatform) addBranch(name, sha string) {
	f.branches[name] = secondary.Ref{Name: name, SHA: sha, URL: "https://example.com/tree/" + name}
}

func (f *fakePlatform) addTag(name, sha string) {
	f.tags[name] = secondary.Ref{Name: name, SHA: sha}
}

func (f *fakePlatform) fail(method string, err error) {
	f.failOn[method] = err
}

func (f *fakePlatform) check(method string) error {
	return f.failOn[method]
}

func (f *fakePlatform) mutate(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations = append(f.mutations, method)
}

func (f *fakePlatform) ListBranches(ctx context.Context, prefix string) ([]secondary.Ref, error) {
	if err := f.check("ListBranches"); err != nil {
		return nil, err
	}
	var out []secondary.Ref
	for name, ref := range f.branches {
		if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (f *fakePlatform) ListTags(ctx context.Context) ([]secondary.Ref, error) {
	if err := f.check("ListTags"); err != nil {
		return nil, err
	}
	var out []secondary.Ref
	for _, ref := range f.tags {
		out = append(out, ref)
	}
	return out, nil
}

func (f *fakePlatform) ListPullRequests(ctx context.Context, target string) ([]secondary.PullRequest, error) {
	if err := f.check("ListPullRequests"); err != nil {
		return nil, err
	}
	var out []secondary.PullRequest
	for _, pr := range f.prs {
		if pr.Target == target {
			out = append(out, pr)
		}
	}
	return out, nil
}

func (f *fakePlatform) ListReleases(ctx context.Context) ([]secondary.Release, error) {
	if err := f.check("ListReleases"); err != nil {
		return nil, err
	}
	return f.releases, nil
}

func (f *fakePlatform) GetBranch(ctx context.Context, name string) (*secondary.Ref, error) {
	if err := f.check("GetBranch"); err != nil {
		return nil, err
	}
	ref, ok := f.branches[name]
	if !ok {
		return nil, fmt.Errorf("branch %s: %w", name, secondary.ErrNotFound)
	}
	return &ref, nil
}

func (f *fakePlatform) GetTag(ctx context.Context, name string) (*secondary.Ref, error) {
	if err := f.check("GetTag"); err != nil {
		return nil, err
	}
	ref, ok := f.tags[name]
	if !ok {
		return nil, fmt.Errorf("tag %s: %w", name, secondary.ErrNotFound)
	}
	return &ref, nil
}

func (f *fakePlatform) GetRelease(ctx context.Context, tag string) (*secondary.Release, error) {
	if err := f.check("GetRelease"); err != nil {
		return nil, err
	}
	for _, rel := range f.releases {
		if rel.TagName == tag {
			return &rel, nil
		}
	}
	return nil, fmt.Errorf("release %s: %w", tag, secondary.ErrNotFound)
}

func (f *fakePlatform) CompareCommits(ctx context.Context, base, head string) ([]secondary.Commit, error) {
	if err := f.check("CompareCommits"); err != nil {
		return nil, err
	}
	return f.commits, nil
}

func (f *fakePlatform) CreateBranch(ctx context.Context, name, fromSHA string) (*secondary.Ref, error) {
	f.mutate("CreateBranch")
	if err := f.check("CreateBranch"); err != nil {
		return nil, err
	}
	if _, exists := f.branches[name]; exists {
		return nil, fmt.Errorf("branch %s exists: %w", name, secondary.ErrPlatformConflict)
	}
	f.addBranch(name, fromSHA)
	ref := f.branches[name]
	return &ref, nil
}

func (f *fakePlatform) CreateTag(ctx context.Context, name, sha string) (*secondary.Ref, error) {
	f.mutate("CreateTag")
	if err := f.check("CreateTag"); err != nil {
		return nil, err
	}
	if _, exists := f.tags[name]; exists {
		return nil, fmt.Errorf("tag %s exists: %w", name, secondary.ErrPlatformConflict)
	}
	f.addTag(name, sha)
	ref := f.tags[name]
	return &ref, nil
}

func (f *fakePlatform) OpenPullRequest(ctx context.Context, source, target, title, body string) (*secondary.PullRequest, error) {
	f.mutate("OpenPullRequest")
	if err := f.check("OpenPullRequest"); err != nil {
		return nil, err
	}
	f.nextPR++
	pr := secondary.PullRequest{
		Number: f.nextPR,
		Title:  title,
		Source: source,
		Target: target,
		URL:    fmt.Sprintf("https://example.com/pull/%d", f.nextPR),
		Open:   true,
	}
	f.prs = append(f.prs, pr)
	return &pr, nil
}

func (f *fakePlatform) MergePullRequest(ctx context.Context, number int) (*secondary.PullRequest, error) {
	f.mutate("MergePullRequest")
	if err := f.check("MergePullRequest"); err != nil {
		return nil, err
	}
	for i := range f.prs {
		if f.prs[i].Number == number {
			f.prs[i].Open = false
			f.prs[i].Merged = true
			return &f.prs[i], nil
		}
	}
	return nil, fmt.Errorf("pull request #%d: %w", number, secondary.ErrNotFound)
}

func (f *fakePlatform) PublishRelease(ctx context.Context, tag, name, notesMarkdown string, prerelease bool) (*secondary.Release, error) {
	f.mutate("PublishRelease")
	if err := f.check("PublishRelease"); err != nil {
		return nil, err
	}
	rel := secondary.Release{
		TagName:    tag,
		Name:       name,
		URL:        "https://example.com/releases/" + tag,
		Prerelease: prerelease,
	}
	f.releases = append(f.releases, rel)
	return &rel, nil
}

// fakeJournal records runs in memory, newest first on List.
type fakeJournal struct {
	runs []*secondary.RunRecord
	err  error
}

func (j *fakeJournal) Record(ctx context.Context, run *secondary.RunRecord) error {
	if j.err != nil {
		return j.err
	}
	run.ID = int64(len(j.runs) + 1)
	j.runs = append(j.runs, run)
	return nil
}

func (j *fakeJournal) List(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	if j.err != nil {
		return nil, j.err
	}
	out := make([]*secondary.RunRecord, 0, len(j.runs))
	for i := len(j.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.runs[i])
	}
	return out, nil
}
