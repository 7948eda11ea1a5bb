// Creates an admin user.
//
//	go run ./cmd/createadmin [email] [password] [name]
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/glossifi/storefront/internal/auth"
	"github.com/glossifi/storefront/internal/config"
	"github.com/glossifi/storefront/internal/postgres"
)

func argOr(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	email := argOr(1, "admin@glossifi.com")
	password := argOr(2, "admin123")
	name := argOr(3, "Admin User")

	ctx := context.Background()
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	repo := &auth.PostgresRepo{DB: db}
	admin, err := repo.Create(ctx, auth.Admin{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
	if errors.Is(err, auth.ErrAdminExists) {
		log.Fatalf("admin with email %s already exists", email)
	}
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}

	log.Printf("admin user created: email=%s name=%s id=%s", admin.Email, admin.Name, admin.ID)
}
