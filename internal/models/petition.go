package models

import "time"

// PetitionStatus captures workflow states for grade-change petitions.
type PetitionStatus string

const (
	PetitionStatusSubmitted       PetitionStatus = "submitted"
	PetitionStatusPendingApproval PetitionStatus = "pending_approval"
	PetitionStatusApproved        PetitionStatus = "approved"
	PetitionStatusRejected        PetitionStatus = "rejected"
)

// Valid reports enum membership.
func (s PetitionStatus) Valid() bool {
	switch s {
	case PetitionStatusSubmitted, PetitionStatusPendingApproval, PetitionStatusApproved, PetitionStatusRejected:
		return true
	}
	return false
}

var petitionTransitionSources = map[PetitionStatus][]PetitionStatus{
	PetitionStatusPendingApproval: {PetitionStatusSubmitted},
	PetitionStatusApproved:        {PetitionStatusSubmitted, PetitionStatusPendingApproval},
	PetitionStatusRejected:        {PetitionStatusSubmitted, PetitionStatusPendingApproval},
}

// PetitionTransitionSources returns the allowed source statuses for a target.
func PetitionTransitionSources(target PetitionStatus) ([]PetitionStatus, bool) {
	sources, ok := petitionTransitionSources[target]
	return sources, ok
}

// PetitionPendingStatuses are counted when enforcing the one-pending-petition
// rule per instructor.
var PetitionPendingStatuses = []PetitionStatus{
	PetitionStatusSubmitted,
	PetitionStatusPendingApproval,
}

// Petition is a grade-change request filed by an instructor on behalf of a
// student. StudentID is free text, not a users foreign key: petitions may
// reference students who have no portal account.
type Petition struct {
	ID           int64          `db:"id" json:"id"`
	InstructorID string         `db:"instructor_id" json:"instructorId"`
	StudentID    string         `db:"student_id" json:"studentId"`
	CourseCode   string         `db:"course_code" json:"courseCode"`
	CurrentGrade string         `db:"current_grade" json:"currentGrade"`
	NewGrade     string         `db:"new_grade" json:"newGrade"`
	Justification string        `db:"justification" json:"justification"`
	Status       PetitionStatus `db:"status" json:"status"`
	AdminComment *string        `db:"admin_comment" json:"adminComment,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}
