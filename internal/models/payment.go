package models

import "time"

// PaymentMethod enumerates accepted payment channels.
type PaymentMethod string

const (
	PaymentMethodOnline  PaymentMethod = "online"
	PaymentMethodVoucher PaymentMethod = "voucher"
)

// Valid reports enum membership.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodOnline || m == PaymentMethodVoucher
}

// PaymentStatus captures settlement states. The mock processor only ever
// produces paid rows; pending and failed exist for schema compatibility.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment records a fee paid against a document request. Rows are immutable
// once created.
type Payment struct {
	ID            int64         `db:"id" json:"id"`
	RequestID     int64         `db:"request_id" json:"requestId"`
	Amount        int64         `db:"amount" json:"amount"`
	Status        PaymentStatus `db:"status" json:"status"`
	TransactionID string        `db:"transaction_id" json:"transactionId"`
	Method        PaymentMethod `db:"method" json:"method"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
}
