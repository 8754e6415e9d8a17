package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-notes-sync/config"
	"github.com/oksasatya/go-notes-sync/internal/application"
	pginfra "github.com/oksasatya/go-notes-sync/internal/infrastructure/postgres"
	"github.com/oksasatya/go-notes-sync/pkg/helpers"
)

// seed creates a demo user with one note. Re-running it is harmless.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.AppName+"-seed", 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	notes := pginfra.NewNoteRepository(pool)
	auth := application.NewAuthService(users, helpers.NewBcryptHasher(cfg.BcryptCost), helpers.NewJWTManager(cfg.JWTSecret), nil, nil, cfg.AppName)

	const (
		email    = "demo@example.com"
		password = "password123"
		username = "demoUser"
	)
	sess, err := auth.Register(ctx, application.RegisterInput{Username: username, Email: email, Password: password})
	switch {
	case errors.Is(err, application.ErrEmailTaken):
		fmt.Printf("user %s already seeded\n", email)
		return
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s username=%s password=%s\n", sess.User.ID, email, username, password)

	svc := application.NewNoteService(notes, nil, nil, nil)
	n, err := svc.Create(ctx, sess.User.ID, application.NoteInput{Title: "Welcome", Content: "Your first note."})
	if err != nil {
		log.Fatalf("failed to seed note: %v", err)
	}
	fmt.Printf("seeded note: id=%s\n", n.ID)
}
