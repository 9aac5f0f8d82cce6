package sqlite

import (
	"context"
	"testing"

	"claimportal/internal/app"
	"claimportal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestIdentities(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u, err := db.Create(ctx, "123412341234", "hash")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	got, err := db.GetByAadharid(ctx, "123412341234")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = db.Create(ctx, "123412341234", "other")
	assert.Error(t, err, "unique constraint must reject duplicates")

	missing, err := db.GetByAadharid(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIdentityWithoutPassword(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Create(ctx, "sso@example.org", "")
	require.NoError(t, err)

	got, err := db.GetByAadharid(ctx, "sso@example.org")
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)
}

func TestClaims(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u, err := db.Create(ctx, "123412341234", "hash")
	require.NoError(t, err)

	want := []domain.Claim{
		{UserID: u.ID, InsuranceType: "Health", ReimbursementAmount: 1250.5, ActiveStatus: "active", HospitalName: "City Hospital", PatientName: "R. Sharma"},
		{UserID: u.ID, InsuranceType: "Dental", ReimbursementAmount: 99.99, ActiveStatus: "inactive", HospitalName: "Smile Clinic", PatientName: "A. Rao"},
	}
	for i := range want {
		id, err := db.AddClaim(ctx, want[i])
		require.NoError(t, err)
		want[i].ID = id
	}

	got, err := db.ListClaimsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range want {
		assert.False(t, got[i].CreatedAt.IsZero())
		got[i].CreatedAt = want[i].CreatedAt
	}
	assert.Equal(t, want, got)

	none, err := db.ListClaimsByUser(ctx, u.ID+1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClaims_ForeignKey(t *testing.T) {
	db := openTestDB(t)

	_, err := db.AddClaim(context.Background(), domain.Claim{UserID: 404, InsuranceType: "Health", ReimbursementAmount: 1, ActiveStatus: "a", HospitalName: "h", PatientName: "p"})
	assert.Error(t, err)
}

// Exercises the services end to end against real SQL.
func TestServices_RegisterLoginSubmitList(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	auth := app.NewAuthService(db, fixedIssuer{}, app.MinBcryptCost)
	claims := app.NewClaimsService(db)

	require.NoError(t, auth.Register(ctx, "123412341234", "pw"))
	err := auth.Register(ctx, "123412341234", "other")
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)

	session, err := auth.Login(ctx, "123412341234", "pw")
	require.NoError(t, err)

	_, err = claims.ListByUser(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for i := 0; i < 3; i++ {
		_, err := claims.Submit(ctx, app.ClaimSubmission{
			UserID:              float64(session.UserID),
			InsuranceType:       "Health",
			ReimbursementAmount: "10.25",
			ActiveStatus:        "active",
			HospitalName:        "City Hospital",
			PatientName:         "R. Sharma",
		})
		require.NoError(t, err)
	}
	list, err := claims.ListByUser(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, 10.25, list[0].ReimbursementAmount)
}

type fixedIssuer struct{}

func (fixedIssuer) Issue(int64) (string, error) { return "tok", nil }

func (fixedIssuer) Verify(string) (domain.TokenClaims, error) { return domain.TokenClaims{}, nil }
