// seedusers creates the initial dashboard accounts. Intended for local
// development and first deployment; rerunning it skips accounts that exist.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/finboard/auth-service/internal/core/domain"
	"github.com/finboard/auth-service/internal/infrastructure/config"
	mongodb "github.com/finboard/auth-service/internal/infrastructure/db/mongo"
	"github.com/finboard/auth-service/pkg/logger"
)

type seedAccount struct {
	name     string
	email    string
	password string
	role     string
}

func main() {
	adminPassword := flag.String("admin-password", "admin123", "password for the seeded admin account")
	managerPassword := flag.String("manager-password", "manager123", "password for the seeded manager account")
	flag.Parse()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	repo := mongodb.NewUserRepository(db)

	accounts := []seedAccount{
		{name: "Admin", email: "admin@finboard.local", password: *adminPassword, role: domain.RoleAdmin},
		{name: "Manager", email: "manager@finboard.local", password: *managerPassword, role: domain.RoleManager},
	}

	for _, acc := range accounts {
		if _, err := repo.FindByIdentifier(ctx, acc.email); err == nil {
			log.Info().Str("email", acc.email).Msg("account exists; skipping")
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(acc.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("password hashing failed")
		}

		now := time.Now().UTC()
		user := &domain.Identity{
			UserID:       uuid.NewString(),
			Name:         acc.name,
			Email:        acc.email,
			PasswordHash: string(hash),
			Role:         acc.role,
			Status:       domain.StatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		created, err := repo.Create(ctx, user)
		if err != nil {
			log.Fatal().Err(err).Str("email", acc.email).Msg("seed failed")
		}
		log.Info().Str("email", created.Email).Str("role", created.Role).Msg("account seeded")
	}
}
