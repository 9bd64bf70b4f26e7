package auth

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/centavo-sv/centavo/internal/shared"
	_ "github.com/centavo-sv/centavo/testing"
)

type memoryRepo struct {
	users map[string]*User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*User)}
}

func (m *memoryRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (m *memoryRepo) CreateUser(ctx context.Context, email, name, passwordHash string) (*User, error) {
	if _, ok := m.users[email]; ok {
		return nil, ErrEmailTaken
	}
	user := &User{
		ID:           int64(len(m.users) + 1),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	m.users[email] = user
	return user, nil
}

func (m *memoryRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (m *memoryRepo) DeleteSession(ctx context.Context, id string) error {
	return nil
}

func seedUser(t *testing.T, repo *memoryRepo, email, password string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo.users[email] = &User{ID: 1, Email: email, PasswordHash: string(hash), IsActive: active}
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := newMemoryRepo()
	seedUser(t, repo, "ana@example.com", "correct horse battery", true)
	svc := NewService(repo)

	user, err := svc.Authenticate(context.Background(), "  Ana@Example.com ", "correct horse battery")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("unexpected user %q", user.Email)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := newMemoryRepo()
	seedUser(t, repo, "ana@example.com", "correct horse battery", true)
	svc := NewService(repo)

	if _, err := svc.Authenticate(context.Background(), "ana@example.com", "wrong"); err != shared.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := NewService(newMemoryRepo())

	if _, err := svc.Authenticate(context.Background(), "nobody@example.com", "x"); err != shared.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	repo := newMemoryRepo()
	seedUser(t, repo, "ana@example.com", "correct horse battery", false)
	svc := NewService(repo)

	if _, err := svc.Authenticate(context.Background(), "ana@example.com", "correct horse battery"); err != shared.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for inactive account, got %v", err)
	}
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), " Ana@Example.COM ", "  Ana Morales ", "hunter2hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Name != "Ana Morales" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}
	if user.PasswordHash == "hunter2hunter2" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2hunter2")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), "ana@example.com", "Ana", "hunter2hunter2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "ana@example.com", "Ana", "hunter2hunter2"); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
