package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hv-doan/prbridge/src/pkg/github"
)

// Sink delivers a rendered report somewhere
type Sink interface {
	Write(ctx context.Context, body string) error
}

// FileSink writes the report to a file, or to Stdout when no path is
// configured.
type FileSink struct {
	Path   string
	Stdout io.Writer
}

func (s *FileSink) Write(ctx context.Context, body string) error {
	if s.Path == "" || s.Path == "-" {
		_, err := fmt.Fprint(s.Stdout, body)
		return err
	}

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.WithField("file", s.Path).Info("Written report to file")
	return nil
}

// CommentSink posts the report as a pull request comment. A previous
// marker-tagged comment is updated in place.
type CommentSink struct {
	Client   github.GitHubClient
	PRNumber int
}

func (s *CommentSink) Write(ctx context.Context, body string) error {
	existing, err := s.Client.FindCommentByMarker(ctx, s.PRNumber, Marker)
	if err != nil {
		logger.WithField("error", err).Warn("Failed to look up existing report comment, posting a new one")
	}

	if existing != nil {
		if err := s.Client.UpdateComment(ctx, existing.ID, body); err != nil {
			return fmt.Errorf("failed to update report comment: %w", err)
		}
		logger.WithField("comment", existing.ID).Info("Updated existing report comment")
		return nil
	}

	created, err := s.Client.PostComment(ctx, s.PRNumber, body)
	if err != nil {
		return fmt.Errorf("failed to post report comment: %w", err)
	}
	logger.WithField("comment", created.ID).Info("Posted report comment")
	return nil
}
