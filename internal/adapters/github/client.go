// Package github adapts the hosted GitHub API to the PlatformClient port.
// Platform errors are translated to the port's sentinel errors so the rest of
// the program never sees transport detail.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v66/github"

	"github.com/enderlabs/octoeb/internal/config"
	"github.com/enderlabs/octoeb/internal/ports/secondary"
)

const (
	requestTimeout = 30 * time.Second
	pageSize       = 100
)

// Client implements secondary.PlatformClient against the GitHub REST API.
type Client struct {
	gh    *gh.Client
	owner string
	repo  string
}

var _ secondary.PlatformClient = (*Client)(nil)

// NewClient builds a Client from the resolved configuration.
func NewClient(cfg *config.Config) *Client {
	httpClient := &http.Client{Timeout: requestTimeout}
	return &Client{
		gh:    gh.NewClient(httpClient).WithAuthToken(cfg.Token),
		owner: cfg.Owner,
		repo:  cfg.Repo,
	}
}

// mapError folds a GitHub API error into the port's sentinel taxonomy while
// keeping the cause wrapped.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", secondary.ErrNotFound, err)
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %v", secondary.ErrPlatformConflict, err)
		default:
			return fmt.Errorf("%w: %v", secondary.ErrPlatformUnavailable, err)
		}
	}
	// Timeouts, DNS failures, connection resets.
	return fmt.Errorf("%w: %v", secondary.ErrPlatformUnavailable, err)
}

func (c *Client) ListBranches(ctx context.Context, prefix string) ([]secondary.Ref, error) {
	var out []secondary.Ref
	opts := &gh.BranchListOptions{ListOptions: gh.ListOptions{PerPage: pageSize}}
	for {
		branches, resp, err := c.gh.Repositories.ListBranches(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, mapError(err)
		}
		for _, b := range branches {
			name := b.GetName()
			if len(name) < len(prefix) || name[:len(prefix)] != prefix {
				continue
			}
			out = append(out, secondary.Ref{
				Name: name,
				SHA:  b.GetCommit().GetSHA(),
				URL:  c.branchURL(name),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func (c *Client) ListTags(ctx context.Context) ([]secondary.Ref, error) {
	var out []secondary.Ref
	opts := &gh.ListOptions{PerPage: pageSize}
	for {
		tags, resp, err := c.gh.Repositories.ListTags(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, mapError(err)
		}
		for _, t := range tags {
			out = append(out, secondary.Ref{
				Name: t.GetName(),
				SHA:  t.GetCommit().GetSHA(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func (c *Client) ListPullRequests(ctx context.Context, target string) ([]secondary.PullRequest, error) {
	var out []secondary.PullRequest
	opts := &gh.PullRequestListOptions{
		State:       "all",
		Base:        target,
		ListOptions: gh.ListOptions{PerPage: pageSize},
	}
	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, mapError(err)
		}
		for _, pr := range prs {
			out = append(out, toPullRequest(pr))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func (c *Client) ListReleases(ctx context.Context) ([]secondary.Release, error) {
	var out []secondary.Release
	opts := &gh.ListOptions{PerPage: pageSize}
	for {
		releases, resp, err := c.gh.Repositories.ListReleases(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, mapError(err)
		}
		for _, rel := range releases {
			out = append(out, toRelease(rel))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func (c *Client) GetBranch(ctx context.Context, name string) (*secondary.Ref, error) {
	ref, _, err := c.gh.Git.GetRef(ctx, c.owner, c.repo, "heads/"+name)
	if err != nil {
		return nil, mapError(err)
	}
	return &secondary.Ref{
		Name: name,
		SHA:  ref.GetObject().GetSHA(),
		URL:  c.branchURL(name),
	}, nil
}

func (c *Client) GetTag(ctx context.Context, name string) (*secondary.Ref, error) {
	ref, _, err := c.gh.Git.GetRef(ctx, c.owner, c.repo, "tags/"+name)
	if err != nil {
		return nil, mapError(err)
	}
	return &secondary.Ref{Name: name, SHA: ref.GetObject().GetSHA()}, nil
}

func (c *Client) GetRelease(ctx context.Context, tag string) (*secondary.Release, error) {
	rel, _, err := c.gh.Repositories.GetReleaseByTag(ctx, c.owner, c.repo, tag)
	if err != nil {
		return nil, mapError(err)
	}
	out := toRelease(rel)
	return &out, nil
}

func (c *Client) CompareCommits(ctx context.Context, base, head string) ([]secondary.Commit, error) {
	var out []secondary.Commit
	opts := &gh.ListOptions{PerPage: pageSize}
	for {
		cmp, resp, err := c.gh.Repositories.CompareCommits(ctx, c.owner, c.repo, base, head, opts)
		if err != nil {
			return nil, mapError(err)
		}
		for _, commit := range cmp.Commits {
			out = append(out, secondary.Commit{
				SHA:     commit.GetSHA(),
				Message: commit.GetCommit().GetMessage(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func (c *Client) CreateBranch(ctx context.Context, name, fromSHA string) (*secondary.Ref, error) {
	ref, _, err := c.gh.Git.CreateRef(ctx, c.owner, c.repo, &gh.Reference{
		Ref:    gh.String("refs/heads/" + name),
		Object: &gh.GitObject{SHA: gh.String(fromSHA)},
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &secondary.Ref{
		Name: name,
		SHA:  ref.GetObject().GetSHA(),
		URL:  c.branchURL(name),
	}, nil
}

func (c *Client) CreateTag(ctx context.Context, name, sha string) (*secondary.Ref, error) {
	ref, _, err := c.gh.Git.CreateRef(ctx, c.owner, c.repo, &gh.Reference{
		Ref:    gh.String("refs/tags/" + name),
		Object: &gh.GitObject{SHA: gh.String(sha)},
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &secondary.Ref{Name: name, SHA: ref.GetObject().GetSHA()}, nil
}

func (c *Client) OpenPullRequest(ctx context.Context, source, target, title, body string) (*secondary.PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Create(ctx, c.owner, c.repo, &gh.NewPullRequest{
		Title: gh.String(title),
		Head:  gh.String(source),
		Base:  gh.String(target),
		Body:  gh.String(body),
	})
	if err != nil {
		return nil, mapError(err)
	}
	out := toPullRequest(pr)
	return &out, nil
}

func (c *Client) MergePullRequest(ctx context.Context, number int) (*secondary.PullRequest, error) {
	_, _, err := c.gh.PullRequests.Merge(ctx, c.owner, c.repo, number, "", &gh.PullRequestOptions{})
	if err != nil {
		return nil, mapError(err)
	}
	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, mapError(err)
	}
	out := toPullRequest(pr)
	return &out, nil
}

func (c *Client) PublishRelease(ctx context.Context, tag, name, notes string, prerelease bool) (*secondary.Release, error) {
	rel, _, err := c.gh.Repositories.CreateRelease(ctx, c.owner, c.repo, &gh.RepositoryRelease{
		TagName:    gh.String(tag),
		Name:       gh.String(name),
		Body:       gh.String(notes),
		Prerelease: gh.Bool(prerelease),
	})
	if err != nil {
		return nil, mapError(err)
	}
	out := toRelease(rel)
	return &out, nil
}

func (c *Client) branchURL(name string) string {
	return fmt.Sprintf("https://github.com/%s/%s/tree/%s", c.owner, c.repo, name)
}

func toPullRequest(pr *gh.PullRequest) secondary.PullRequest {
	return secondary.PullRequest{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Source: pr.GetHead().GetRef(),
		Target: pr.GetBase().GetRef(),
		URL:    pr.GetHTMLURL(),
		Open:   pr.GetState() == "open",
		Merged: pr.GetMerged() || pr.MergedAt != nil,
	}
}

func toRelease(rel *gh.RepositoryRelease) secondary.Release {
	return secondary.Release{
		TagName:    rel.GetTagName(),
		Name:       rel.GetName(),
		URL:        rel.GetHTMLURL(),
		Prerelease: rel.GetPrerelease(),
	}
}
