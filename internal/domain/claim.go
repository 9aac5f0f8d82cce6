package domain

import (
	"context"
	"time"
)

// Claim is one insurance reimbursement request. JSON names follow the
// stored column names.
type Claim struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	InsuranceType       string    `json:"insurance_type"`
	ReimbursementAmount float64   `json:"reimbursement_amount"`
	ActiveStatus        string    `json:"active_status"`
	HospitalName        string    `json:"hospital_name"`
	PatientName         string    `json:"patient_name"`
	CreatedAt           time.Time `json:"created_at"`
}

// ClaimRepository is the port for claim persistence.
type ClaimRepository interface {
	// AddClaim inserts c (ID and CreatedAt are ignored) and returns the new id.
	AddClaim(ctx context.Context, c Claim) (int64, error)
	ListClaimsByUser(ctx context.Context, userID int64) ([]Claim, error)
}
