package app

import (
	"context"

	"claimportal/internal/domain"
	"claimportal/internal/validate"
)

var (
	// ErrClaimFieldsRequired is returned when any claim field is missing or falsy.
	ErrClaimFieldsRequired = &domain.Error{Kind: domain.ErrInvalidInput, Msg: "All fields are required"}
	// ErrInvalidClaimNumbers is returned for a non-numeric user id or amount.
	ErrInvalidClaimNumbers = &domain.Error{Kind: domain.ErrInvalidInput, Msg: "Invalid user ID or reimbursement amount"}
	// ErrInvalidUserID is returned when listing with a missing or non-numeric user id.
	ErrInvalidUserID = &domain.Error{Kind: domain.ErrInvalidInput, Msg: "Invalid user ID"}
	// ErrNoClaims means the user has not submitted any claim.
	ErrNoClaims = &domain.Error{Kind: domain.ErrNotFound, Msg: "No claims found for this user"}
)

// ClaimSubmission holds the raw values decoded from a submit request. Each
// value is a JSON scalar as sent by the client.
type ClaimSubmission struct {
	UserID              any `json:"userId"`
	InsuranceType       any `json:"insurance_type"`
	ReimbursementAmount any `json:"reimbursement_amount"`
	ActiveStatus        any `json:"active_status"`
	HospitalName        any `json:"hospital_name"`
	PatientName         any `json:"patient_name"`
}

// ClaimsService encapsulates claim submission and retrieval.
type ClaimsService struct {
	repo domain.ClaimRepository
}

// NewClaimsService creates a ClaimsService backed by the given repository.
func NewClaimsService(repo domain.ClaimRepository) *ClaimsService {
	return &ClaimsService{repo: repo}
}

// Validate checks a submission and converts it into a claim ready to store.
func (s *ClaimsService) Validate(in ClaimSubmission) (domain.Claim, error) {
	for _, v := range []any{in.UserID, in.InsuranceType, in.ReimbursementAmount, in.ActiveStatus, in.HospitalName, in.PatientName} {
		if !validate.Truthy(v) || !validate.Scalar(v) {
			return domain.Claim{}, ErrClaimFieldsRequired
		}
	}

	userID, ok := validate.ID(in.UserID)
	if !ok {
		return domain.Claim{}, ErrInvalidClaimNumbers
	}
	amount, ok := validate.Number(in.ReimbursementAmount)
	if !ok || amount < 0 {
		return domain.Claim{}, ErrInvalidClaimNumbers
	}

	return domain.Claim{
		UserID:              userID,
		InsuranceType:       validate.Text(in.InsuranceType),
		ReimbursementAmount: amount,
		ActiveStatus:        validate.Text(in.ActiveStatus),
		HospitalName:        validate.Text(in.HospitalName),
		PatientName:         validate.Text(in.PatientName),
	}, nil
}

// Submit validates and stores a claim, returning its store-assigned id. The
// user id is not checked for existence here; the store's foreign key does that.
func (s *ClaimsService) Submit(ctx context.Context, in ClaimSubmission) (int64, error) {
	claim, err := s.Validate(in)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.AddClaim(ctx, claim)
	if err != nil {
		return 0, domain.NewStoreError(err)
	}
	return id, nil
}

// ListByUser returns every claim owned by userID. An empty result is
// reported as ErrNoClaims.
func (s *ClaimsService) ListByUser(ctx context.Context, userID string) ([]domain.Claim, error) {
	id, ok := validate.ID(userID)
	if !ok {
		return nil, ErrInvalidUserID
	}
	claims, err := s.repo.ListClaimsByUser(ctx, id)
	if err != nil {
		return nil, domain.NewStoreError(err)
	}
	if len(claims) == 0 {
		return nil, ErrNoClaims
	}
	return claims, nil
}
