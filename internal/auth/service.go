package auth

import (
	"context"
	"strings"
)

type Service struct {
	repo     AdminRepo
	sessions *Sessions
}

func NewService(repo AdminRepo, sessions *Sessions) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// Login verifies the credentials and mints a session token. The same error
// covers unknown email and wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	admin, err := s.repo.ByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !admin.CheckPassword(password) {
		return "", ErrInvalidCredentials
	}
	return s.sessions.Create(ctx, admin.ID)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// Verify resolves a session token to an admin id.
func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	return s.sessions.Lookup(ctx, token)
}
