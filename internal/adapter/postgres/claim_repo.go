package postgres

import (
	"context"

	"claimportal/internal/domain"
)

var _ domain.ClaimRepository = (*DB)(nil)

// AddClaim inserts a claim and returns its id.
func (d *DB) AddClaim(ctx context.Context, c domain.Claim) (int64, error) {
	s := d.handle()
	var id int64
	err := s.QueryRowContext(ctx,
		"INSERT INTO claims (user_id, insurance_type, reimbursement_amount, active_status, hospital_name, patient_name) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;",
		c.UserID, c.InsuranceType, c.ReimbursementAmount, c.ActiveStatus, c.HospitalName, c.PatientName,
	).Scan(&id)
	return id, d.observe(s, err)
}

// ListClaimsByUser returns all claims owned by userID.
func (d *DB) ListClaimsByUser(ctx context.Context, userID int64) ([]domain.Claim, error) {
	s := d.handle()
	rows, err := s.QueryContext(ctx,
		"SELECT id, user_id, insurance_type, reimbursement_amount, active_status, hospital_name, patient_name, created_at FROM claims WHERE user_id = $1 ORDER BY id;",
		userID)
	if err != nil {
		return nil, d.observe(s, err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Claim
	for rows.Next() {
		var c domain.Claim
		if err := rows.Scan(&c.ID, &c.UserID, &c.InsuranceType, &c.ReimbursementAmount, &c.ActiveStatus, &c.HospitalName, &c.PatientName, &c.CreatedAt); err != nil {
			return nil, d.observe(s, err)
		}
		out = append(out, c)
	}
	return out, d.observe(s, rows.Err())
}
