package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/Gabriel-Moraes12/Kinisi2/config"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	repo "github.com/Gabriel-Moraes12/Kinisi2/internal/domain/repository"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/infrastructure/mongodb"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
)

// seeds two verified demo users who are already friends
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	client, err := mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	users := mongodb.NewUserRepository(client.Database(cfg.MongoDatabase))

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ana := seedUser(ctx, users, "Ana Demo", "ana.demo@kinisi.app", hash)
	bruno := seedUser(ctx, users, "Bruno Demo", "bruno.demo@kinisi.app", hash)

	now := time.Now()
	ana.AddAcceptedFriend(bruno.ID, now)
	bruno.AddAcceptedFriend(ana.ID, now)
	for _, u := range []*entity.User{ana, bruno} {
		if err := users.Save(ctx, u); err != nil {
			log.Fatalf("failed to link friends: %v", err)
		}
		fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", u.ID, u.Email, u.Name, password)
	}
}

func seedUser(ctx context.Context, users repo.UserRepository, name, email, hash string) *entity.User {
	u, err := users.GetByEmail(ctx, email)
	if err == nil {
		return u
	}
	if !errors.Is(err, repo.ErrNotFound) {
		log.Fatalf("failed to look up %s: %v", email, err)
	}
	u = &entity.User{Name: name, Email: email, Password: hash, IsVerified: true}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("failed to seed %s: %v", email, err)
	}
	return u
}
