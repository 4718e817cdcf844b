package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/semenovda/todo-vault/internal/common/clock"
	commonerrors "github.com/semenovda/todo-vault/internal/common/errors"
	"github.com/semenovda/todo-vault/internal/common/logger"
	userdomain "github.com/semenovda/todo-vault/internal/user/domain"
	userrepo "github.com/semenovda/todo-vault/internal/user/repository"
)

type mockUserRepo struct {
	createFunc      func(ctx context.Context, user userdomain.User) error
	findByEmailFunc func(ctx context.Context, email string) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed_"+password {
		return errors.New("password mismatch")
	}
	return nil
}

type mockIDGenerator struct {
	id string
}

func (m *mockIDGenerator) NewID() (string, error) {
	return m.id, nil
}

func setupAuthService(t *testing.T) (*AuthService, *mockUserRepo, *mockHasher, *clock.MockClock) {
	t.Helper()

	log, err := logger.New("", "test", "ERROR")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	mockClock := clock.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	issuer := NewTokenIssuer(testSecret, 24*time.Hour, clock.NewRealClock())

	svc := NewAuthService(repo, hasher, &mockIDGenerator{id: "user-123"}, issuer, mockClock, log)
	return svc, repo, hasher, mockClock
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo, _, mockClock := setupAuthService(t)

	var created userdomain.User
	repo.createFunc = func(ctx context.Context, user userdomain.User) error {
		created = user
		return nil
	}

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.ID != "user-123" {
		t.Errorf("expected id user-123, got %s", user.ID)
	}
	if created.Email != "alice@example.com" {
		t.Errorf("expected stored email alice@example.com, got %s", created.Email)
	}
	if created.PasswordHash == "password123" {
		t.Error("password must not be stored in plaintext")
	}
	if !created.CreatedAt.Equal(mockClock.Now()) {
		t.Errorf("expected created_at %v, got %v", mockClock.Now(), created.CreatedAt)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.createFunc = func(ctx context.Context, user userdomain.User) error {
		return commonerrors.ErrEmailAlreadyExists
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Password: "password123",
	})

	if !errors.Is(err, commonerrors.ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestAuthService_Register_StorageError(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.createFunc = func(ctx context.Context, user userdomain.User) error {
		return errors.New("connection refused")
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Password: "password123",
	})

	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok || domainErr.Code() != "STORAGE_UNAVAILABLE" {
		t.Errorf("expected STORAGE_UNAVAILABLE, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, _, mockClock := setupAuthService(t)

	repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		if email != "alice@example.com" {
			t.Errorf("expected lookup by alice@example.com, got %s", email)
		}
		return userdomain.User{
			ID:           "user-123",
			Email:        "alice@example.com",
			PasswordHash: "hashed_password123",
			CreatedAt:    mockClock.Now(),
		}, nil
	}

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Token == "" {
		t.Error("expected token to be set")
	}
}

func TestAuthService_Login_UnknownEmailAndWrongPasswordCollapse(t *testing.T) {
	svc, repo, _, mockClock := setupAuthService(t)

	_, unknownErr := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "password123",
	})

	repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		return userdomain.User{
			ID:           "user-123",
			Email:        "alice@example.com",
			PasswordHash: "hashed_password123",
			CreatedAt:    mockClock.Now(),
		}, nil
	}

	_, wrongPassErr := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "wrongpass",
	})

	if !errors.Is(unknownErr, commonerrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", unknownErr)
	}
	if !errors.Is(wrongPassErr, commonerrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", wrongPassErr)
	}
	if unknownErr.Error() != wrongPassErr.Error() {
		t.Errorf("outcomes must be indistinguishable: %q vs %q", unknownErr, wrongPassErr)
	}
}

func TestAuthService_Login_StorageError(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		return userdomain.User{}, errors.New("connection refused")
	}

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "password123",
	})

	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok || domainErr.Code() != "STORAGE_UNAVAILABLE" {
		t.Errorf("expected STORAGE_UNAVAILABLE, got %v", err)
	}
}
