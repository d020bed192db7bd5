package models

import "fmt"

// ReviewEvent is the action submitted with a pull request review.
type ReviewEvent string

const (
	ReviewEventApprove        ReviewEvent = "APPROVE"
	ReviewEventRequestChanges ReviewEvent = "REQUEST_CHANGES"
	ReviewEventComment        ReviewEvent = "COMMENT"
)

// Normalize maps the empty event to COMMENT and validates the rest.
func (e ReviewEvent) Normalize() (ReviewEvent, error) {
	if e == "" {
		return ReviewEventComment, nil
	}
	switch e {
	case ReviewEventApprove, ReviewEventRequestChanges, ReviewEventComment:
		return e, nil
	}
	return "", fmt.Errorf("invalid review event: %q (want APPROVE, REQUEST_CHANGES or COMMENT)", string(e))
}

// DismissalReason is sent alongside a review dismissal. GitHub treats it
// as advisory, so the set is open; OUT_OF_DATE is the usual value.
type DismissalReason string

const DismissalOutOfDate DismissalReason = "OUT_OF_DATE"

// OrDefault returns OUT_OF_DATE when no reason was given.
func (r DismissalReason) OrDefault() DismissalReason {
	if r == "" {
		return DismissalOutOfDate
	}
	return r
}
