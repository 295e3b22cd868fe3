package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService("test-secret", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return s
}

func TestNewService_EmptySecret(t *testing.T) {
	if _, err := NewService("", time.Minute); err == nil {
		t.Error("Expected error for empty secret")
	}
}

func TestAuthenticate(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"admin", "admin", "admin123", false},
		{"regular user", "user1", "user123", false},
		{"wrong password", "admin", "user123", true},
		{"unknown user", "ghost", "admin123", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := s.Authenticate(tt.username, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("Expected ErrInvalidCredentials, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate failed: %v", err)
			}
			if user.Username != tt.username {
				t.Errorf("Expected %s, got %s", tt.username, user.Username)
			}
		})
	}
}

func TestBuiltinPermissions(t *testing.T) {
	s := newTestService(t)

	admin := s.User("admin")
	if admin.Role != "admin" || !admin.HasPermission("admin") {
		t.Errorf("Expected admin to hold every permission, got %+v", admin)
	}
	user := s.User("user1")
	if user.HasPermission("admin") || !user.HasPermission("upload") {
		t.Errorf("Unexpected permissions for user1: %v", user.Permissions)
	}
	if admin.PasswordHash == "admin123" || admin.PasswordHash == "" {
		t.Error("Expected password to be stored as a hash")
	}
}

func TestIssueAndParseToken(t *testing.T) {
	s := newTestService(t)

	token, err := s.IssueToken("user1")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	user, err := s.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if user.Username != "user1" {
		t.Errorf("Expected user1, got %s", user.Username)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	s := newTestService(t)

	expired := newTestService(t)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expiredToken, _ := expired.IssueToken("admin")

	other, _ := NewService("other-secret", time.Minute)
	foreignToken, _ := other.IssueToken("admin")

	unknownToken, _ := s.IssueToken("ghost")

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"garbage":        "not-a-token",
		"expired":        expiredToken,
		"wrong secret":   foreignToken,
		"unknown user":   unknownToken,
		"unsigned token": noneToken,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := s.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
