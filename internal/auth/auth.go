package auth

import (
	"errors"
	"fmt"
	"time"

	"shipwatch/internal/model"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
)

// Service checks passwords against the built-in accounts and issues bearer tokens.
type Service struct {
	users  map[string]*model.User
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type account struct {
	user     model.User
	password string
}

var builtinAccounts = []account{
	{
		user: model.User{
			Username:    "admin",
			FullName:    "Administrator",
			Email:       "admin@example.com",
			Role:        "admin",
			Permissions: []string{"all"},
		},
		password: "admin123",
	},
	{
		user: model.User{
			Username:    "user1",
			FullName:    "Regular User",
			Email:       "user1@example.com",
			Role:        "user",
			Permissions: []string{"view", "upload"},
		},
		password: "user123",
	},
}

// NewService hashes the built-in accounts and prepares token signing.
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}

	users := make(map[string]*model.User, len(builtinAccounts))
	for _, a := range builtinAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", a.user.Username, err)
		}
		user := a.user
		user.PasswordHash = string(hash)
		users[user.Username] = &user
	}

	return &Service{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// User returns the account named username, or nil.
func (s *Service) User(username string) *model.User {
	return s.users[username]
}

// Authenticate returns the account when password matches its hash.
func (s *Service) Authenticate(username, password string) (*model.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs an HS256 token for username that expires after the configured TTL.
func (s *Service) IssueToken(username string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token and returns the account it was issued for.
func (s *Service) ParseToken(token string) (*model.User, error) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	user, ok := s.users[claims.Subject]
	if !ok {
		return nil, ErrInvalidToken
	}
	return user, nil
}
