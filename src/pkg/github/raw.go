package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hv-doan/prbridge/src/pkg/models"
)

// Raw-call backing. These operations build their own HTTP requests
// instead of riding go-github, and read the token from the environment
// on every call, so it can rotate underneath a living client.

// patchTimeout bounds the diff fetch, the one call with its own
// deadline. Diffs of large PRs can take a while to assemble
// server-side.
const patchTimeout = 60 * time.Second

// DismissalMessage is posted with every review dismissal.
const DismissalMessage = "This review has been superseded by a newer review."

func (c *Client) newRawRequest(ctx context.Context, method, url, accept string, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if token := os.Getenv(c.tokenEnv); token != "" {
		req.Header.Set("Authorization", "token "+token)
	}
	req.Header.Set("Accept", accept)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// GetComments retrieves the comments on a pull request reduced to ID
// and body, preserving the order the API returned them in.
func (c *Client) GetComments(ctx context.Context, number int) ([]*models.Comment, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.baseURL, c.owner, c.name, number)

	req, err := c.newRawRequest(ctx, http.MethodGet, url, "application/vnd.github+json", nil)
	if err != nil {
		logger.WithField("pr", number).WithField("error", err).Error("Failed to get comments")
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithField("pr", number).WithField("error", err).Error("Failed to get comments")
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode, string(body))
		logger.WithField("pr", number).WithField("error", err).Error("Failed to get comments")
		return nil, err
	}

	var commentsData []struct {
		ID   int64  `json:"id"`
		Body string `json:"body"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&commentsData); err != nil {
		logger.WithField("pr", number).WithField("error", err).Error("Failed to get comments")
		return nil, fmt.Errorf("failed to decode comments response: %w", err)
	}

	comments := make([]*models.Comment, len(commentsData))
	for i, cm := range commentsData {
		comments[i] = &models.Comment{
			ID:   cm.ID,
			Body: cm.Body,
		}
	}

	logger.WithField("pr", number).WithField("count", len(comments)).Info("Retrieved comments")
	return comments, nil
}

// GetPRPatch retrieves the unified diff of a pull request and returns
// the response body verbatim, with no parsing or reshaping.
func (c *Client) GetPRPatch(ctx context.Context, number int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, patchTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, c.owner, c.name, number)

	req, err := c.newRawRequest(ctx, http.MethodGet, url, "application/vnd.github.v3.diff", nil)
	if err != nil {
		logger.WithField("pr", number).WithField("error", err).Error("Failed to get PR patch")
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithField("pr", number).WithField("error", err).Error("Failed to get PR patch")
		return "", fmt.Errorf("failed to get PR patch: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode, string(body))
		logger.WithField("pr", number).WithField("error", err).Error("Failed to get PR patch")
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithField("pr", number).WithField("error", err).Error("Failed to get PR patch")
		return "", fmt.Errorf("failed to read patch response: %w", err)
	}

	logger.WithField("pr", number).WithField("bytes", len(body)).Info("Retrieved PR patch")
	return string(body), nil
}

// DismissReview dismisses a pull request review. Unlike every other
// operation it reports success as a bool and never returns an error:
// callers treat a failed dismissal as already gone and move on.
func (c *Client) DismissReview(ctx context.Context, number int, reviewID int64, reason models.DismissalReason) bool {
	payload, err := json.Marshal(map[string]string{
		"message":          DismissalMessage,
		"dismissal_reason": string(reason.OrDefault()),
	})
	if err != nil {
		logger.WithField("review", reviewID).WithField("error", err).Error("Failed to dismiss review")
		return false
	}

	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/reviews/%d/dismissals", c.baseURL, c.owner, c.name, number, reviewID)

	req, err := c.newRawRequest(ctx, http.MethodPost, url, "application/vnd.github+json", payload)
	if err != nil {
		logger.WithField("review", reviewID).WithField("error", err).Error("Failed to dismiss review")
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithField("review", reviewID).WithField("error", err).Error("Failed to dismiss review")
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		logger.WithField("review", reviewID).
			WithField("status", resp.StatusCode).
			WithField("body", string(body)).
			Error("Failed to dismiss review")
		return false
	}

	logger.WithField("pr", number).WithField("review", reviewID).Info("Dismissed review")
	return true
}
