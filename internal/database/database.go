package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"geolog/config"
	"geolog/internal/domain"
	"geolog/internal/logging"
	"geolog/internal/models"
	"geolog/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Employee{},
		&models.UserLocationLog{},
		&models.ErrorLog{},
	)
}

// SeedAdmin creates the configured administrator when the users table is
// empty. Without a password nothing is seeded.
func SeedAdmin(ctx context.Context, users *repository.UserRepository, cfg *config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		logging.Info().Msg("admin seed skipped: admin.email/admin.password not set")
		return nil
	}
	n, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	u := &models.User{
		ID:           email,
		Email:        email,
		FirstName:    firstName(cfg.FullName),
		FullName:     cfg.FullName,
		PasswordHash: string(hash),
		Enabled:      true,
	}
	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := users.AddRoles(ctx, email, domain.RoleAdministrator, domain.RoleSystemManager); err != nil {
		return fmt.Errorf("seed admin roles: %w", err)
	}
	logging.Info().Str("user", email).Msg("seeded administrator")
	return nil
}

func firstName(full string) string {
	if f := strings.Fields(full); len(f) > 0 {
		return f[0]
	}
	return ""
}
