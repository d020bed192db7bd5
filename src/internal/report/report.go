package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hv-doan/prbridge/src/pkg/github"
	"github.com/hv-doan/prbridge/src/pkg/models"
	"github.com/hv-doan/prbridge/src/pkg/template"
	"github.com/hv-doan/prbridge/src/pkg/trace"
)

var logger = log.WithField("package", "report")

// Marker tags generated comments so that re-runs update the previous
// report instead of stacking a new one.
const Marker = "<!-- prbridge: auto-generated report, please do not remove -->"

// Options configures report generation
type Options struct {
	PRNumber     int
	TemplatePath string
	IncludePatch bool
}

// Generator assembles all data for one pull request and renders it
// into a markdown report.
type Generator struct {
	client   github.GitHubClient
	renderer *template.Renderer
	opts     Options
}

// NewGenerator creates a report generator
func NewGenerator(client github.GitHubClient, renderer *template.Renderer, opts Options) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("github client is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("template renderer is required")
	}
	if opts.PRNumber <= 0 {
		return nil, fmt.Errorf("invalid pull request number: %d", opts.PRNumber)
	}
	return &Generator{client: client, renderer: renderer, opts: opts}, nil
}

// Collect fetches the pull request, its discussion, its reviews and
// optionally its diff, one call after another.
func (g *Generator) Collect(ctx context.Context) (*models.ReportData, error) {
	logger.WithFields(log.Fields{
		"repository": g.client.Repository(),
		"pr":         g.opts.PRNumber,
	}).Info("Collecting report data...")

	ctx, span := trace.StartSpan(ctx, "report.collect")
	defer span.End()

	data := &models.ReportData{
		Repository: g.client.Repository(),
		Timestamp:  time.Now().UTC(),
	}

	_, prSpan := trace.StartSpan(ctx, "report.collect.pr")
	pr, err := g.client.GetPR(ctx, g.opts.PRNumber)
	prSpan.End()
	if err != nil {
		return nil, fmt.Errorf("failed to collect pull request: %w", err)
	}
	data.PR = pr

	_, commentsSpan := trace.StartSpan(ctx, "report.collect.comments")
	comments, err := g.client.GetPRComments(ctx, g.opts.PRNumber)
	commentsSpan.End()
	if err != nil {
		return nil, fmt.Errorf("failed to collect comments: %w", err)
	}
	data.Comments = comments

	_, reviewsSpan := trace.StartSpan(ctx, "report.collect.reviews")
	reviews, err := g.client.GetReviews(ctx, g.opts.PRNumber)
	reviewsSpan.End()
	if err != nil {
		return nil, fmt.Errorf("failed to collect reviews: %w", err)
	}
	data.Reviews = reviews

	if g.opts.IncludePatch {
		_, patchSpan := trace.StartSpan(ctx, "report.collect.patch")
		patch, err := g.client.GetPRPatch(ctx, g.opts.PRNumber)
		patchSpan.End()
		if err != nil {
			return nil, fmt.Errorf("failed to collect patch: %w", err)
		}
		data.Patch = patch
		data.PatchStats = countPatchLines(patch)
	}

	logger.WithFields(log.Fields{
		"comments": len(data.Comments),
		"reviews":  len(data.Reviews),
	}).Info("Report data collected")

	return data, nil
}

// Render produces the report markdown, prefixed with the marker. A
// configured template file wins over the built-in one.
func (g *Generator) Render(ctx context.Context, data *models.ReportData) (string, error) {
	_, span := trace.StartSpan(ctx, "report.render")
	defer span.End()

	var rendered string
	var err error
	if g.opts.TemplatePath != "" {
		rendered, err = g.renderer.Render(g.opts.TemplatePath, data)
	} else {
		rendered, err = g.renderer.RenderString(g.renderer.GetDefaultReportTemplate(), data)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	return Marker + "\n\n" + rendered, nil
}

// countPatchLines calculates the number of added and deleted lines
// from a unified diff, skipping the +++/--- file headers
func countPatchLines(patch string) models.PatchStats {
	var stats models.PatchStats
	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			stats.AddedLineCount++
		case strings.HasPrefix(line, "-"):
			stats.DeletedLineCount++
		}
	}
	stats.LineCount = stats.AddedLineCount + stats.DeletedLineCount
	return stats
}
