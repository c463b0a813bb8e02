package models

import "time"

// MajorApplicationStatus captures workflow states for major declarations.
type MajorApplicationStatus string

const (
	MajorApplicationStatusSubmitted       MajorApplicationStatus = "submitted"
	MajorApplicationStatusPendingApproval MajorApplicationStatus = "pending_approval"
	MajorApplicationStatusApproved        MajorApplicationStatus = "approved"
	MajorApplicationStatusRejected        MajorApplicationStatus = "rejected"
)

// Valid reports enum membership.
func (s MajorApplicationStatus) Valid() bool {
	switch s {
	case MajorApplicationStatusSubmitted, MajorApplicationStatusPendingApproval,
		MajorApplicationStatusApproved, MajorApplicationStatusRejected:
		return true
	}
	return false
}

var majorApplicationTransitionSources = map[MajorApplicationStatus][]MajorApplicationStatus{
	MajorApplicationStatusPendingApproval: {MajorApplicationStatusSubmitted},
	MajorApplicationStatusApproved:        {MajorApplicationStatusSubmitted, MajorApplicationStatusPendingApproval},
	MajorApplicationStatusRejected:        {MajorApplicationStatusSubmitted, MajorApplicationStatusPendingApproval},
}

// MajorApplicationTransitionSources returns the allowed source statuses for a target.
func MajorApplicationTransitionSources(target MajorApplicationStatus) ([]MajorApplicationStatus, bool) {
	sources, ok := majorApplicationTransitionSources[target]
	return sources, ok
}

// MajorApplicationPendingStatuses are counted when enforcing the at-most-one
// pending application rule per student.
var MajorApplicationPendingStatuses = []MajorApplicationStatus{
	MajorApplicationStatusSubmitted,
	MajorApplicationStatusPendingApproval,
}

// MajorApplication is a student's request to declare or change major.
type MajorApplication struct {
	ID             int64                  `db:"id" json:"id"`
	StudentID      string                 `db:"student_id" json:"studentId"`
	CurrentMajor   *string                `db:"current_major" json:"currentMajor,omitempty"`
	RequestedMajor string                 `db:"requested_major" json:"requestedMajor"`
	School         string                 `db:"school" json:"school"`
	Statement      *string                `db:"statement" json:"statement,omitempty"`
	Status         MajorApplicationStatus `db:"status" json:"status"`
	AdminComment   *string                `db:"admin_comment" json:"adminComment,omitempty"`
	CreatedAt      time.Time              `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time              `db:"updated_at" json:"updatedAt"`
}
