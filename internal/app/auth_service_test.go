package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"claimportal/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type mockIdentityRepo struct {
	getByAadharidFn func(ctx context.Context, aadharid string) (*domain.Identity, error)
	createFn        func(ctx context.Context, aadharid, passwordHash string) (*domain.Identity, error)
}

func (m *mockIdentityRepo) GetByAadharid(ctx context.Context, aadharid string) (*domain.Identity, error) {
	if m.getByAadharidFn != nil {
		return m.getByAadharidFn(ctx, aadharid)
	}
	return nil, nil
}

func (m *mockIdentityRepo) Create(ctx context.Context, aadharid, passwordHash string) (*domain.Identity, error) {
	if m.createFn != nil {
		return m.createFn(ctx, aadharid, passwordHash)
	}
	return &domain.Identity{ID: 1, Aadharid: aadharid, PasswordHash: passwordHash}, nil
}

type mockTokenIssuer struct {
	issueFn  func(userID int64) (string, error)
	verifyFn func(token string) (domain.TokenClaims, error)
}

func (m *mockTokenIssuer) Issue(userID int64) (string, error) {
	if m.issueFn != nil {
		return m.issueFn(userID)
	}
	return "signed-token", nil
}

func (m *mockTokenIssuer) Verify(token string) (domain.TokenClaims, error) {
	if m.verifyFn != nil {
		return m.verifyFn(token)
	}
	return domain.TokenClaims{}, errors.New("invalid")
}

func identityWithPassword(t *testing.T, id int64, password string) *domain.Identity {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), MinBcryptCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &domain.Identity{ID: id, Aadharid: "123412341234", PasswordHash: string(hash)}
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	ctx := context.Background()
	var storedHash string

	users := &mockIdentityRepo{
		createFn: func(ctx context.Context, aadharid, passwordHash string) (*domain.Identity, error) {
			if aadharid != "123412341234" {
				t.Errorf("expected aadharid 123412341234, got %s", aadharid)
			}
			storedHash = passwordHash
			return &domain.Identity{ID: 9, Aadharid: aadharid, PasswordHash: passwordHash}, nil
		},
	}

	svc := NewAuthService(users, &mockTokenIssuer{}, 0)
	if err := svc.Register(ctx, "123412341234", "s3cret"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if storedHash == "s3cret" || storedHash == "" {
		t.Fatalf("expected a hash, got %q", storedHash)
	}
	cost, err := bcrypt.Cost([]byte(storedHash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost < MinBcryptCost {
		t.Errorf("expected cost >= %d, got %d", MinBcryptCost, cost)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("s3cret")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	called := false
	users := &mockIdentityRepo{
		createFn: func(ctx context.Context, aadharid, passwordHash string) (*domain.Identity, error) {
			called = true
			return nil, nil
		},
	}
	svc := NewAuthService(users, &mockTokenIssuer{}, 0)

	for _, tc := range []struct{ id, pw string }{{"", "pw"}, {"123", ""}, {"", ""}} {
		err := svc.Register(context.Background(), tc.id, tc.pw)
		if err != ErrCredentialsRequired {
			t.Errorf("Register(%q, %q): expected ErrCredentialsRequired, got %v", tc.id, tc.pw, err)
		}
	}
	if called {
		t.Error("store must not be touched on invalid input")
	}
}

func TestAuthService_Register_StoreError(t *testing.T) {
	users := &mockIdentityRepo{
		createFn: func(ctx context.Context, aadharid, passwordHash string) (*domain.Identity, error) {
			return nil, errors.New("duplicate key value violates unique constraint")
		},
	}
	svc := NewAuthService(users, &mockTokenIssuer{}, 0)

	err := svc.Register(context.Background(), "123412341234", "pw")
	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if err.Error() != "Database error: duplicate key value violates unique constraint" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	svc := NewAuthService(&mockIdentityRepo{}, &mockTokenIssuer{}, 0)
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}

	err := svc.Register(context.Background(), "123412341234", string(long))
	var internal *domain.InternalError
	if !errors.As(err, &internal) {
		t.Fatalf("expected InternalError, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	identity := identityWithPassword(t, 42, "testpass123")

	users := &mockIdentityRepo{
		getByAadharidFn: func(ctx context.Context, aadharid string) (*domain.Identity, error) {
			return identity, nil
		},
	}
	tokens := &mockTokenIssuer{
		issueFn: func(userID int64) (string, error) {
			if userID != 42 {
				t.Errorf("expected userID 42, got %d", userID)
			}
			return "tok", nil
		},
	}

	svc := NewAuthService(users, tokens, 0)
	session, err := svc.Login(ctx, "123412341234", "testpass123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if session.Token != "tok" || session.UserID != 42 {
		t.Errorf("unexpected session %+v", session)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	identity := identityWithPassword(t, 1, "correctpass")

	tests := []struct {
		name     string
		password string
		lookup   func(ctx context.Context, aadharid string) (*domain.Identity, error)
		wantKind error
	}{
		{
			name:     "missing password",
			password: "",
			wantKind: domain.ErrInvalidInput,
		},
		{
			name:     "unknown user",
			password: "x",
			lookup: func(ctx context.Context, aadharid string) (*domain.Identity, error) {
				return nil, nil
			},
			wantKind: domain.ErrNotFound,
		},
		{
			name:     "no password hash",
			password: "x",
			lookup: func(ctx context.Context, aadharid string) (*domain.Identity, error) {
				return &domain.Identity{ID: 3, Aadharid: aadharid}, nil
			},
			wantKind: domain.ErrInvalidState,
		},
		{
			name:     "wrong password",
			password: "wrongpass",
			lookup: func(ctx context.Context, aadharid string) (*domain.Identity, error) {
				return identity, nil
			},
			wantKind: domain.ErrUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			issued := false
			tokens := &mockTokenIssuer{
				issueFn: func(userID int64) (string, error) {
					issued = true
					return "tok", nil
				},
			}
			svc := NewAuthService(&mockIdentityRepo{getByAadharidFn: tc.lookup}, tokens, 0)

			session, err := svc.Login(context.Background(), "123412341234", tc.password)
			if !errors.Is(err, tc.wantKind) {
				t.Fatalf("expected %v, got %v", tc.wantKind, err)
			}
			if issued || session.Token != "" {
				t.Error("no token may be issued on failure")
			}
		})
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	users := &mockIdentityRepo{
		getByAadharidFn: func(ctx context.Context, aadharid string) (*domain.Identity, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewAuthService(users, &mockTokenIssuer{}, 0)

	_, err := svc.Login(context.Background(), "123412341234", "pw")
	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	tokens := &mockTokenIssuer{
		verifyFn: func(token string) (domain.TokenClaims, error) {
			if token != "good" {
				return domain.TokenClaims{}, errors.New("bad signature")
			}
			return domain.TokenClaims{UserID: 5, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	svc := NewAuthService(&mockIdentityRepo{}, tokens, 0)

	id, err := svc.Authenticate("good")
	if err != nil || id != 5 {
		t.Fatalf("expected user 5, got %d, %v", id, err)
	}
	if _, err := svc.Authenticate("bad"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.Authenticate(""); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestAuthService_LoginExternal_NewIdentity(t *testing.T) {
	var createdHash, createdID = "unset", ""
	users := &mockIdentityRepo{
		createFn: func(ctx context.Context, aadharid, passwordHash string) (*domain.Identity, error) {
			createdHash, createdID = passwordHash, aadharid
			return &domain.Identity{ID: 2, Aadharid: aadharid}, nil
		},
	}
	svc := NewAuthService(users, &mockTokenIssuer{}, 0)

	session, err := svc.LoginExternal(context.Background(), "user@example.org")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if session.UserID != 2 {
		t.Errorf("expected user 2, got %d", session.UserID)
	}
	if createdHash != "" {
		t.Errorf("expected identity without password hash, got %q", createdHash)
	}
	if createdID != "sso:user@example.org" {
		t.Errorf("expected namespaced Aadharid, got %q", createdID)
	}
}

func TestAuthService_LoginExternal_CreateRace(t *testing.T) {
	lookups := 0
	users := &mockIdentityRepo{
		getByAadharidFn: func(ctx context.Context, aadharid string) (*domain.Identity, error) {
			lookups++
			if lookups == 1 {
				return nil, nil
			}
			return &domain.Identity{ID: 8, Aadharid: aadharid}, nil
		},
		createFn: func(ctx context.Context, aadharid, passwordHash string) (*domain.Identity, error) {
			return nil, errors.New("unique violation")
		},
	}
	svc := NewAuthService(users, &mockTokenIssuer{}, 0)

	session, err := svc.LoginExternal(context.Background(), "user@example.org")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if session.UserID != 8 {
		t.Errorf("expected user 8, got %d", session.UserID)
	}
}

func TestAuthService_LoginExternal_CreateFailsWithoutRace(t *testing.T) {
	users := &mockIdentityRepo{
		getByAadharidFn: func(ctx context.Context, aadharid string) (*domain.Identity, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, aadharid, passwordHash string) (*domain.Identity, error) {
			return nil, errors.New("disk full")
		},
	}
	svc := NewAuthService(users, &mockTokenIssuer{}, 0)

	_, err := svc.LoginExternal(context.Background(), "user@example.org")
	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if err.Error() != "Database error: disk full" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
