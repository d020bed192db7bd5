package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/hv-doan/prbridge/src/pkg/models"
)

// MockClient implements GitHubClient for testing
type MockClient struct {
	// Control test behavior
	Repo              string
	PR                *models.PullRequest
	PRError           error
	Patch             string
	PatchError        error
	PRComments        []*models.IssueComment
	PRCommentsError   error
	Comments          []*models.Comment
	CommentsError     error
	PostedComment     *models.IssueComment
	PostCommentError  error
	UpdateError       error
	Commit            *models.Commit
	CommitError       error
	FileContent       string
	FileContentError  error
	Reviews           []*models.Review
	ReviewsError      error
	PostedReview      *models.Review
	PostReviewError   error
	DismissResult     bool

	// Track method calls
	GetPRCalled         bool
	GetPRPatchCalled    bool
	GetPRCommentsCalled bool
	GetCommentsCalled   bool
	PostCommentCalled   bool
	UpdateCommentCalled bool
	GetCommitCalled     bool
	GetFileCalled       bool
	GetReviewsCalled    bool
	PostReviewCalled    bool
	DismissCalled       bool

	// Store call arguments for verification
	LastPRNumber  int
	LastBody      string
	LastCommentID int64
	LastSHA       string
	LastRef       string
	LastPath      string
	LastEvent     models.ReviewEvent
	LastReviewID  int64
	LastReason    models.DismissalReason
}

// Ensure MockClient implements GitHubClient
var _ GitHubClient = (*MockClient)(nil)

func (m *MockClient) Repository() string {
	if m.Repo == "" {
		return "acme/widgets"
	}
	return m.Repo
}

func (m *MockClient) GetPR(ctx context.Context, number int) (*models.PullRequest, error) {
	m.GetPRCalled = true
	m.LastPRNumber = number
	return m.PR, m.PRError
}

func (m *MockClient) GetPRPatch(ctx context.Context, number int) (string, error) {
	m.GetPRPatchCalled = true
	m.LastPRNumber = number
	return m.Patch, m.PatchError
}

func (m *MockClient) GetPRComments(ctx context.Context, number int) ([]*models.IssueComment, error) {
	m.GetPRCommentsCalled = true
	m.LastPRNumber = number
	return m.PRComments, m.PRCommentsError
}

func (m *MockClient) GetComments(ctx context.Context, number int) ([]*models.Comment, error) {
	m.GetCommentsCalled = true
	m.LastPRNumber = number
	return m.Comments, m.CommentsError
}

func (m *MockClient) FindCommentByMarker(ctx context.Context, number int, marker string) (*models.Comment, error) {
	comments, err := m.GetComments(ctx, number)
	if err != nil {
		return nil, err
	}
	for _, comment := range comments {
		if strings.Contains(comment.Body, marker) {
			return comment, nil
		}
	}
	return nil, nil
}

func (m *MockClient) PostComment(ctx context.Context, number int, body string) (*models.IssueComment, error) {
	m.PostCommentCalled = true
	m.LastPRNumber = number
	m.LastBody = body
	return m.PostedComment, m.PostCommentError
}

func (m *MockClient) UpdateComment(ctx context.Context, commentID int64, body string) error {
	m.UpdateCommentCalled = true
	m.LastCommentID = commentID
	m.LastBody = body
	return m.UpdateError
}

func (m *MockClient) GetCommit(ctx context.Context, sha string) (*models.Commit, error) {
	m.GetCommitCalled = true
	m.LastSHA = sha
	return m.Commit, m.CommitError
}

func (m *MockClient) GetCommitFiles(commit *models.Commit) ([]models.CommitFile, error) {
	if commit == nil {
		return nil, fmt.Errorf("commit handle is nil")
	}
	return commit.Files, nil
}

func (m *MockClient) GetFileContent(ctx context.Context, ref, path string) (string, error) {
	m.GetFileCalled = true
	m.LastRef = ref
	m.LastPath = path
	return m.FileContent, m.FileContentError
}

func (m *MockClient) GetReviews(ctx context.Context, number int) ([]*models.Review, error) {
	m.GetReviewsCalled = true
	m.LastPRNumber = number
	return m.Reviews, m.ReviewsError
}

func (m *MockClient) PostReview(ctx context.Context, number int, body string, event models.ReviewEvent) (*models.Review, error) {
	m.PostReviewCalled = true
	m.LastPRNumber = number
	m.LastBody = body
	m.LastEvent = event
	return m.PostedReview, m.PostReviewError
}

func (m *MockClient) DismissReview(ctx context.Context, number int, reviewID int64, reason models.DismissalReason) bool {
	m.DismissCalled = true
	m.LastPRNumber = number
	m.LastReviewID = reviewID
	m.LastReason = reason
	return m.DismissResult
}

// Reset clears all tracking data for fresh test
func (m *MockClient) Reset() {
	m.GetPRCalled = false
	m.GetPRPatchCalled = false
	m.GetPRCommentsCalled = false
	m.GetCommentsCalled = false
	m.PostCommentCalled = false
	m.UpdateCommentCalled = false
	m.GetCommitCalled = false
	m.GetFileCalled = false
	m.GetReviewsCalled = false
	m.PostReviewCalled = false
	m.DismissCalled = false
	m.LastPRNumber = 0
	m.LastBody = ""
	m.LastCommentID = 0
	m.LastSHA = ""
	m.LastRef = ""
	m.LastPath = ""
	m.LastEvent = ""
	m.LastReviewID = 0
	m.LastReason = ""
}
