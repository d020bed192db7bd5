package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/hv-doan/prbridge/src/pkg/config"
	"github.com/hv-doan/prbridge/src/pkg/models"
)

var logger = log.WithField("package", "github")

// RepoEnvVar names the environment variable the target repository
// ("owner/name") is read from at construction time.
const RepoEnvVar = "GITHUB_REPOSITORY"

// GitHubClient defines the interface for GitHub API operations against
// a single repository. Some operations ride go-github, some build
// their own HTTP requests; callers see one contract either way.
type GitHubClient interface {
	// Repository returns the bound "owner/name"
	Repository() string
	// GetPR retrieves pull request information
	GetPR(ctx context.Context, number int) (*models.PullRequest, error)
	// GetPRPatch retrieves the unified diff of a pull request, verbatim as served
	GetPRPatch(ctx context.Context, number int) (string, error)
	// GetPRComments retrieves all issue comments on a pull request with full metadata
	GetPRComments(ctx context.Context, number int) ([]*models.IssueComment, error)
	// GetComments retrieves the comments on a pull request reduced to ID and body, in API order
	GetComments(ctx context.Context, number int) ([]*models.Comment, error)
	// FindCommentByMarker finds the first comment whose body contains marker, or nil
	FindCommentByMarker(ctx context.Context, number int, marker string) (*models.Comment, error)
	// PostComment creates a new comment on a pull request
	PostComment(ctx context.Context, number int, body string) (*models.IssueComment, error)
	// UpdateComment updates an existing comment
	UpdateComment(ctx context.Context, commentID int64, body string) error
	// GetCommit retrieves a commit with the files it touched
	GetCommit(ctx context.Context, sha string) (*models.Commit, error)
	// GetCommitFiles returns the file changes of an already-fetched commit handle
	GetCommitFiles(commit *models.Commit) ([]models.CommitFile, error)
	// GetFileContent retrieves a file's text content at the given ref
	GetFileContent(ctx context.Context, ref, path string) (string, error)
	// GetReviews retrieves all reviews on a pull request
	GetReviews(ctx context.Context, number int) ([]*models.Review, error)
	// PostReview submits a review; an empty event means COMMENT
	PostReview(ctx context.Context, number int, body string, event models.ReviewEvent) (*models.Review, error)
	// DismissReview dismisses a review, reporting success as a bool and never an error
	DismissReview(ctx context.Context, number int, reviewID int64, reason models.DismissalReason) bool
}

// Client handles GitHub API interactions for one repository. The
// construction-time token feeds the go-github transport; raw calls
// read their token from the environment on every call, so the two
// credentials may legitimately differ.
type Client struct {
	client *github.Client

	owner string
	name  string

	httpClient *http.Client
	baseURL    string
	tokenEnv   string
}

// Ensure Client implements GitHubClient
var _ GitHubClient = (*Client)(nil)

// NewClient creates a client bound to the repository named by
// GITHUB_REPOSITORY. The repository is resolved once up front; any
// failure means no client exists.
func NewClient(ctx context.Context, cfg *config.Config, token string) (*Client, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}

	repo := os.Getenv(RepoEnvVar)
	if repo == "" {
		return nil, fmt.Errorf("%s environment variable is not set", RepoEnvVar)
	}
	owner, name, err := ParseOwnerRepo(repo)
	if err != nil {
		logger.WithField("repository", repo).WithField("error", err).Error("Failed to resolve repository")
		return nil, fmt.Errorf("failed to parse repository: %w", err)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	gh := github.NewClient(tc)

	endpoint := strings.TrimSuffix(cfg.GitHub.APIEndpoint, "/")
	if endpoint != config.DefaultAPIEndpoint {
		base, err := url.Parse(endpoint + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API endpoint %q: %w", cfg.GitHub.APIEndpoint, err)
		}
		gh.BaseURL = base
	}

	if _, _, err := gh.Repositories.Get(ctx, owner, name); err != nil {
		logger.WithField("repository", repo).WithField("error", err).Error("Failed to resolve repository")
		return nil, fmt.Errorf("failed to resolve repository %s: %w", repo, err)
	}

	logger.WithField("repository", repo).Info("Resolved repository")
	return &Client{
		client:     gh,
		owner:      owner,
		name:       name,
		httpClient: &http.Client{},
		baseURL:    endpoint,
		tokenEnv:   cfg.GitHub.TokenEnv,
	}, nil
}

// Repository returns the bound "owner/name"
func (c *Client) Repository() string {
	return c.owner + "/" + c.name
}

// GetPR retrieves pull request information
func (c *Client) GetPR(ctx context.Context, number int) (*models.PullRequest, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.name, number)
	if err != nil {
		logger.WithField("pr", number).WithField("error", err).Error("Failed to get PR")
		return nil, fmt.Errorf("failed to get PR: %w", err)
	}

	logger.WithField("pr", pr.GetNumber()).Info("Retrieved PR")
	return &models.PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		State:     pr.GetState(),
		Draft:     pr.GetDraft(),
		Merged:    pr.GetMerged(),
		Author:    pr.GetUser().GetLogin(),
		BaseRef:   pr.GetBase().GetRef(),
		BaseSHA:   pr.GetBase().GetSHA(),
		HeadRef:   pr.GetHead().GetRef(),
		HeadSHA:   pr.GetHead().GetSHA(),
		CreatedAt: pr.GetCreatedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
	}, nil
}

// GetPRComments retrieves all issue comments on a pull request,
// following pagination until exhausted.
func (c *Client) GetPRComments(ctx context.Context, number int) ([]*models.IssueComment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var allComments []*models.IssueComment
	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, c.owner, c.name, number, opts)
		if err != nil {
			logger.WithField("pr", number).WithField("error", err).Error("Failed to get PR comments")
			return nil, fmt.Errorf("failed to get PR comments: %w", err)
		}

		for _, ic := range comments {
			allComments = append(allComments, &models.IssueComment{
				ID:        ic.GetID(),
				Body:      ic.GetBody(),
				User:      ic.GetUser().GetLogin(),
				CreatedAt: ic.GetCreatedAt().Time,
				UpdatedAt: ic.GetUpdatedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logger.WithField("pr", number).WithField("count", len(allComments)).Info("Retrieved PR comments")
	return allComments, nil
}

// PostComment creates a new comment on a pull request
func (c *Client) PostComment(ctx context.Context, number int, body string) (*models.IssueComment, error) {
	comment := &github.IssueComment{
		Body: github.String(body),
	}

	created, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.name, number, comment)
	if err != nil {
		logger.WithField("pr", number).WithField("error", err).Error("Failed to post comment")
		return nil, fmt.Errorf("failed to post comment: %w", err)
	}

	logger.WithField("pr", number).WithField("comment", created.GetID()).Info("Posted comment")
	return &models.IssueComment{
		ID:        created.GetID(),
		Body:      created.GetBody(),
		User:      created.GetUser().GetLogin(),
		CreatedAt: created.GetCreatedAt().Time,
		UpdatedAt: created.GetUpdatedAt().Time,
	}, nil
}

// UpdateComment updates an existing comment
func (c *Client) UpdateComment(ctx context.Context, commentID int64, body string) error {
	comment := &github.IssueComment{
		Body: github.String(body),
	}

	_, _, err := c.client.Issues.EditComment(ctx, c.owner, c.name, commentID, comment)
	if err != nil {
		logger.WithField("comment", commentID).WithField("error", err).Error("Failed to update comment")
		return fmt.Errorf("failed to update comment: %w", err)
	}

	logger.WithField("comment", commentID).Info("Updated comment")
	return nil
}

// FindCommentByMarker finds the first comment whose body contains
// marker. Returns nil without error when no comment matches.
func (c *Client) FindCommentByMarker(ctx context.Context, number int, marker string) (*models.Comment, error) {
	comments, err := c.GetComments(ctx, number)
	if err != nil {
		return nil, err
	}

	for _, comment := range comments {
		if strings.Contains(comment.Body, marker) {
			return comment, nil
		}
	}

	return nil, nil // Not found
}

// GetCommit retrieves a commit with the files it touched
func (c *Client) GetCommit(ctx context.Context, sha string) (*models.Commit, error) {
	commit, _, err := c.client.Repositories.GetCommit(ctx, c.owner, c.name, sha, nil)
	if err != nil {
		logger.WithField("sha", ShortSHA(sha)).WithField("error", err).Error("Failed to get commit")
		return nil, fmt.Errorf("failed to get commit %s: %w", sha, err)
	}

	author := commit.GetAuthor().GetLogin()
	if author == "" {
		author = commit.GetCommit().GetAuthor().GetName()
	}

	files := make([]models.CommitFile, 0, len(commit.Files))
	for _, f := range commit.Files {
		files = append(files, models.CommitFile{
			Filename:  f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Changes:   f.GetChanges(),
			Patch:     f.GetPatch(),
		})
	}

	logger.WithField("sha", ShortSHA(commit.GetSHA())).WithField("files", len(files)).Info("Retrieved commit")
	return &models.Commit{
		SHA:     commit.GetSHA(),
		Message: commit.GetCommit().GetMessage(),
		Author:  author,
		Files:   files,
	}, nil
}

// GetCommitFiles returns the file changes of an already-fetched commit
// handle. No API call happens here; the handle carries its files.
func (c *Client) GetCommitFiles(commit *models.Commit) ([]models.CommitFile, error) {
	if commit == nil {
		err := fmt.Errorf("commit handle is nil")
		logger.WithField("error", err).Error("Failed to get commit files")
		return nil, err
	}

	logger.WithField("sha", ShortSHA(commit.SHA)).WithField("files", len(commit.Files)).Info("Retrieved commit files")
	return commit.Files, nil
}

// GetFileContent retrieves a file's content at the given ref, decoded
// from the API's base64 transport encoding to text.
func (c *Client) GetFileContent(ctx context.Context, ref, path string) (string, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}

	file, _, _, err := c.client.Repositories.GetContents(ctx, c.owner, c.name, path, opts)
	if err != nil {
		logger.WithField("path", path).WithField("ref", ShortSHA(ref)).WithField("error", err).Error("Failed to get file content")
		return "", fmt.Errorf("failed to get content of %s at %s: %w", path, ref, err)
	}
	if file == nil {
		err := fmt.Errorf("%s is a directory, not a file", path)
		logger.WithField("path", path).WithField("error", err).Error("Failed to get file content")
		return "", err
	}

	content, err := file.GetContent()
	if err != nil {
		logger.WithField("path", path).WithField("error", err).Error("Failed to decode file content")
		return "", fmt.Errorf("failed to decode content of %s: %w", path, err)
	}

	logger.WithField("path", path).WithField("ref", ShortSHA(ref)).Info("Retrieved file content")
	return content, nil
}

// GetReviews retrieves all reviews on a pull request, following
// pagination until exhausted.
func (c *Client) GetReviews(ctx context.Context, number int) ([]*models.Review, error) {
	opts := &github.ListOptions{PerPage: 100}

	var allReviews []*models.Review
	for {
		reviews, resp, err := c.client.PullRequests.ListReviews(ctx, c.owner, c.name, number, opts)
		if err != nil {
			logger.WithField("pr", number).WithField("error", err).Error("Failed to get reviews")
			return nil, fmt.Errorf("failed to get reviews: %w", err)
		}

		for _, rv := range reviews {
			allReviews = append(allReviews, &models.Review{
				ID:          rv.GetID(),
				User:        rv.GetUser().GetLogin(),
				Body:        rv.GetBody(),
				State:       rv.GetState(),
				CommitID:    rv.GetCommitID(),
				SubmittedAt: rv.GetSubmittedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logger.WithField("pr", number).WithField("count", len(allReviews)).Info("Retrieved reviews")
	return allReviews, nil
}

// PostReview submits a review on a pull request. The event is
// validated before any API call; an empty event means COMMENT.
func (c *Client) PostReview(ctx context.Context, number int, body string, event models.ReviewEvent) (*models.Review, error) {
	ev, err := event.Normalize()
	if err != nil {
		logger.WithField("pr", number).WithField("error", err).Error("Failed to post review")
		return nil, err
	}

	review := &github.PullRequestReviewRequest{
		Body:  github.String(body),
		Event: github.String(string(ev)),
	}

	created, _, err := c.client.PullRequests.CreateReview(ctx, c.owner, c.name, number, review)
	if err != nil {
		logger.WithField("pr", number).WithField("event", string(ev)).WithField("error", err).Error("Failed to post review")
		return nil, fmt.Errorf("failed to post review: %w", err)
	}

	logger.WithField("pr", number).WithField("review", created.GetID()).WithField("event", string(ev)).Info("Posted review")
	return &models.Review{
		ID:          created.GetID(),
		User:        created.GetUser().GetLogin(),
		Body:        created.GetBody(),
		State:       created.GetState(),
		CommitID:    created.GetCommitID(),
		SubmittedAt: created.GetSubmittedAt().Time,
	}, nil
}
