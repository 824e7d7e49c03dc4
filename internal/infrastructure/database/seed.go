package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/andesind/catalog-api/internal/config"
	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/pkg/utils"
	"gorm.io/gorm"
)

// SeedAdmin creates the first back office account from configuration. It
// does nothing when credentials are missing or the email already exists.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		slog.Warn("admin credentials not configured, skipping seed")
		return nil
	}

	var existing entity.User
	err := db.Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		slog.Info("admin user already exists", "email", cfg.Email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "Administrador"
	}
	admin := entity.User{
		Name:     name,
		Email:    cfg.Email,
		Password: hashed,
		Role:     enum.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	slog.Info("admin user created", "email", cfg.Email)
	return nil
}
