package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memAdmins struct {
	byEmail map[string]Admin
}

func (r *memAdmins) ByEmail(ctx context.Context, email string) (Admin, error) {
	a, ok := r.byEmail[email]
	if !ok {
		return Admin{}, ErrInvalidCredentials
	}
	return a, nil
}

func (r *memAdmins) Create(ctx context.Context, a Admin) (Admin, error) {
	if _, ok := r.byEmail[a.Email]; ok {
		return Admin{}, ErrAdminExists
	}
	a.CreatedAt = time.Now()
	r.byEmail[a.Email] = a
	return a, nil
}

func testService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	repo := &memAdmins{byEmail: map[string]Admin{
		"admin@glossifi.com": {
			ID:           uuid.NewString(),
			Email:        "admin@glossifi.com",
			Name:         "Admin",
			PasswordHash: hash,
		},
	}}
	return NewService(repo, &Sessions{RDB: rdb, TTL: time.Hour}), mr
}

func TestLoginVerifyLogout(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, "admin@glossifi.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	adminID, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	require.NotEmpty(t, adminID)

	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.Verify(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestLoginRejections(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "admin@glossifi.com", "nope")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost@glossifi.com", "s3cret")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, "", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("email is case and space insensitive", func(t *testing.T) {
		token, err := svc.Login(ctx, "  Admin@Glossifi.com ", "s3cret")
		require.NoError(t, err)
		require.NotEmpty(t, token)
	})
}

func TestSessionExpiry(t *testing.T) {
	svc, mr := testService(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, "admin@glossifi.com", "s3cret")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = svc.Verify(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestVerifyEmptyToken(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.Verify(context.Background(), "")
	require.ErrorIs(t, err, ErrNoSession)
}
