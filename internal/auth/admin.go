package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminExists        = errors.New("admin already exists")
)

type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func (a Admin) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

type AdminRepo interface {
	ByEmail(ctx context.Context, email string) (Admin, error)
	Create(ctx context.Context, a Admin) (Admin, error)
}

type PostgresRepo struct{ DB *pgxpool.Pool }

func (r *PostgresRepo) ByEmail(ctx context.Context, email string) (Admin, error) {
	var a Admin
	err := r.DB.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM admin_users WHERE email=$1`, email,
	).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Admin{}, ErrInvalidCredentials
	}
	return a, err
}

func (r *PostgresRepo) Create(ctx context.Context, a Admin) (Admin, error) {
	var exists bool
	if err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM admin_users WHERE email=$1)`, a.Email,
	).Scan(&exists); err != nil {
		return Admin{}, err
	}
	if exists {
		return Admin{}, ErrAdminExists
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO admin_users(id, email, name, password_hash)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at`,
		a.ID, a.Email, a.Name, a.PasswordHash,
	).Scan(&a.CreatedAt)
	return a, err
}
