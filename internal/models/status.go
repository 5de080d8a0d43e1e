package models

type Status string

const (
	StatusPending           Status = "Pending"
	StatusUnderReview       Status = "Under Review"
	StatusEnrolled          Status = "Enrolled"
	StatusTemporaryEnrolled Status = "Temporary Enrolled"
	StatusRejected          Status = "Rejected"
)

// flow is the documented review flow. Enrolled and Rejected have no outgoing edges here
// but are not terminal.
var flow = map[Status][]Status{
	StatusPending:           {StatusUnderReview, StatusRejected},
	StatusUnderReview:       {StatusEnrolled, StatusTemporaryEnrolled, StatusRejected},
	StatusTemporaryEnrolled: {StatusEnrolled, StatusRejected},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusUnderReview, StatusEnrolled, StatusTemporaryEnrolled, StatusRejected:
		return st, true
	}
	return "", false
}

// IsTransitionTarget reports whether an administrator may move a student into s.
// Pending is only ever set by intake.
func (s Status) IsTransitionTarget() bool {
	switch s {
	case StatusUnderReview, StatusEnrolled, StatusTemporaryEnrolled, StatusRejected:
		return true
	}
	return false
}

// RequiresReason: the stored reason is kept only for these statuses.
func (s Status) RequiresReason() bool {
	return s == StatusRejected || s == StatusTemporaryEnrolled
}

// GrantsAccount: entering these statuses (re)provisions the student password.
func (s Status) GrantsAccount() bool {
	return s == StatusEnrolled || s == StatusTemporaryEnrolled
}

// InFlow reports whether from → to is an edge of the documented review flow.
// Same-status re-application counts as in flow.
func InFlow(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range flow[from] {
		if next == to {
			return true
		}
	}
	return false
}
