package service

import (
	"errors"
	"testing"
	"time"

	"notefold-server/internal/domain"
	"notefold-server/internal/repository"
)

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrConflict
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(email string) (*domain.User, error) {
	if user, ok := m.users[email]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) EmailExists(email string) (bool, error) {
	_, err := m.FindByEmail(email)
	return err == nil, nil
}

func TestAuthService_Signup(t *testing.T) {
	repo := newMockUserRepository()
	service := NewAuthService(repo, "test-secret", 15*time.Minute)

	token, err := service.Signup("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if token.AccessToken == "" {
		t.Error("Signup() returned empty access token")
	}
	if token.TokenType != "bearer" {
		t.Errorf("Signup() token type = %q, want %q", token.TokenType, "bearer")
	}

	user, err := repo.FindByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("user was not persisted: %v", err)
	}
	if user.HashedPassword == "password123" {
		t.Error("Signup() stored the plaintext password")
	}
	if user.HashedPassword == "" {
		t.Error("Signup() stored an empty password hash")
	}
	if user.ID == "" {
		t.Error("Signup() did not assign a user ID")
	}
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	repo := newMockUserRepository()
	service := NewAuthService(repo, "test-secret", 15*time.Minute)

	if _, err := service.Signup("alice@example.com", "password123"); err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}

	_, err := service.Signup("alice@example.com", "differentpass")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("second Signup() error = %v, want ErrEmailTaken", err)
	}

	if len(repo.users) != 1 {
		t.Errorf("expected 1 user record, got %d", len(repo.users))
	}
}

// raceUserRepository simulates the concurrent-signup window: the existence
// pre-check misses but the insert hits the store's uniqueness conflict.
type raceUserRepository struct {
	mockUserRepository
}

func (m *raceUserRepository) EmailExists(email string) (bool, error) {
	return false, nil
}

func (m *raceUserRepository) Create(user *domain.User) error {
	return repository.ErrConflict
}

func TestAuthService_SignupInsertConflict(t *testing.T) {
	repo := &raceUserRepository{mockUserRepository: *newMockUserRepository()}
	service := NewAuthService(repo, "test-secret", 15*time.Minute)

	_, err := service.Signup("alice@example.com", "password123")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Signup() error = %v, want ErrEmailTaken", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	repo := newMockUserRepository()
	service := NewAuthService(repo, "test-secret", 15*time.Minute)

	if _, err := service.Signup("alice@example.com", "password123"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	token, err := service.Login("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token.AccessToken == "" {
		t.Error("Login() returned empty access token")
	}
}

func TestAuthService_LoginFailuresIndistinguishable(t *testing.T) {
	repo := newMockUserRepository()
	service := NewAuthService(repo, "test-secret", 15*time.Minute)

	if _, err := service.Signup("alice@example.com", "password123"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	_, wrongPassErr := service.Login("alice@example.com", "wrong-password")
	_, unknownErr := service.Login("nobody@example.com", "password123")

	if !errors.Is(wrongPassErr, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", wrongPassErr)
	}
	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", unknownErr)
	}
	if wrongPassErr.Error() != unknownErr.Error() {
		t.Errorf("error messages differ: %q vs %q", wrongPassErr.Error(), unknownErr.Error())
	}
}

func TestAuthService_Resolve(t *testing.T) {
	repo := newMockUserRepository()
	service := NewAuthService(repo, "test-secret", 15*time.Minute)

	token, err := service.Signup("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	user, err := service.Resolve(token.AccessToken)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Resolve() email = %q, want %q", user.Email, "alice@example.com")
	}
}

func TestAuthService_ResolveInvalidToken(t *testing.T) {
	repo := newMockUserRepository()
	service := NewAuthService(repo, "test-secret", 15*time.Minute)

	token, err := service.Signup("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage token", token: "not.a.token"},
		{name: "empty token", token: ""},
		{name: "tampered token", token: token.AccessToken[:len(token.AccessToken)-4] + "XXXX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Resolve(tt.token)
			if !errors.Is(err, ErrUnauthenticated) {
				t.Errorf("Resolve() error = %v, want ErrUnauthenticated", err)
			}
		})
	}
}

func TestAuthService_ResolveExpiredToken(t *testing.T) {
	repo := newMockUserRepository()
	// Negative lifetime issues already-expired tokens.
	service := NewAuthService(repo, "test-secret", -1*time.Minute)

	token, err := service.Signup("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if _, err := service.Resolve(token.AccessToken); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Resolve() error = %v, want ErrUnauthenticated", err)
	}
}

func TestAuthService_ResolveUnknownSubject(t *testing.T) {
	repo := newMockUserRepository()
	service := NewAuthService(repo, "test-secret", 15*time.Minute)

	token, err := service.Signup("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	// User disappears after the token was issued.
	delete(repo.users, "alice@example.com")

	if _, err := service.Resolve(token.AccessToken); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Resolve() error = %v, want ErrUnauthenticated", err)
	}
}
