package models

import "time"

// DocumentType enumerates the documents the registrar office issues.
type DocumentType string

const (
	DocumentTypeTranscript      DocumentType = "transcript"
	DocumentTypeDegree          DocumentType = "degree"
	DocumentTypeLetter          DocumentType = "letter"
	DocumentTypeDuplicateDegree DocumentType = "duplicate_degree"
)

// Valid reports enum membership.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeTranscript, DocumentTypeDegree, DocumentTypeLetter, DocumentTypeDuplicateDegree:
		return true
	}
	return false
}

// Urgency qualifies how quickly a document request should be handled.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyUrgent Urgency = "urgent"
)

// Valid reports enum membership.
func (u Urgency) Valid() bool {
	return u == UrgencyNormal || u == UrgencyUrgent
}

// DocumentStatus captures workflow states for document requests.
type DocumentStatus string

const (
	DocumentStatusSubmitted       DocumentStatus = "submitted"
	DocumentStatusPaymentPending  DocumentStatus = "payment_pending"
	DocumentStatusPendingApproval DocumentStatus = "pending_approval"
	DocumentStatusApproved        DocumentStatus = "approved"
	DocumentStatusCompleted       DocumentStatus = "completed"
	DocumentStatusRejected        DocumentStatus = "rejected"
)

// Valid reports enum membership.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusSubmitted, DocumentStatusPaymentPending, DocumentStatusPendingApproval,
		DocumentStatusApproved, DocumentStatusCompleted, DocumentStatusRejected:
		return true
	}
	return false
}

// documentTransitionSources maps each reachable target status to the set of
// statuses it may be entered from. Targets absent from the map are never valid
// update-status inputs. completed is only reachable from approved, the manual
// fulfilment step performed by the registrar after the document is printed.
var documentTransitionSources = map[DocumentStatus][]DocumentStatus{
	DocumentStatusPaymentPending:  {DocumentStatusSubmitted},
	DocumentStatusPendingApproval: {DocumentStatusSubmitted, DocumentStatusPaymentPending},
	DocumentStatusApproved:        {DocumentStatusSubmitted, DocumentStatusPaymentPending, DocumentStatusPendingApproval},
	DocumentStatusRejected:        {DocumentStatusSubmitted, DocumentStatusPaymentPending, DocumentStatusPendingApproval},
	DocumentStatusCompleted:       {DocumentStatusApproved},
}

// DocumentTransitionSources returns the allowed source statuses for a target.
func DocumentTransitionSources(target DocumentStatus) ([]DocumentStatus, bool) {
	sources, ok := documentTransitionSources[target]
	return sources, ok
}

// DocumentPendingStatuses are the non-terminal states counted when enforcing
// the one-pending-request-per-student rule.
var DocumentPendingStatuses = []DocumentStatus{
	DocumentStatusSubmitted,
	DocumentStatusPaymentPending,
	DocumentStatusPendingApproval,
}

// DocumentPayableStatuses are the states a request may be paid from.
var DocumentPayableStatuses = []DocumentStatus{
	DocumentStatusSubmitted,
	DocumentStatusPaymentPending,
}

// DocumentRequest is a student's request for an official document.
type DocumentRequest struct {
	ID           int64          `db:"id" json:"id"`
	UserID       string         `db:"user_id" json:"userId"`
	Type         DocumentType   `db:"type" json:"type"`
	Urgency      Urgency        `db:"urgency" json:"urgency"`
	Status       DocumentStatus `db:"status" json:"status"`
	Copies       int            `db:"copies" json:"copies"`
	Amount       *int64         `db:"amount" json:"amount,omitempty"`
	AdminComment *string        `db:"admin_comment" json:"adminComment,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// DocumentRequestWithPayment joins a request with its payment, if any.
type DocumentRequestWithPayment struct {
	DocumentRequest
	Payment *Payment `json:"payment,omitempty"`
}
