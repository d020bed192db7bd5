package models

import "time"

// ReportData represents the complete report data structure
type ReportData struct {
	Repository string    `json:"repository"`
	Timestamp  time.Time `json:"timestamp"`

	PR       *PullRequest    `json:"pr"`
	Comments []*IssueComment `json:"comments"`
	Reviews  []*Review       `json:"reviews"`

	// Unified diff of the pull request, verbatim as served
	Patch      string     `json:"patch,omitempty"`
	PatchStats PatchStats `json:"patch_stats"`
}

// PatchStats represents line counts derived from the patch text
type PatchStats struct {
	LineCount        int `json:"line_count"`
	AddedLineCount   int `json:"added_line_count"`
	DeletedLineCount int `json:"deleted_line_count"`
}
