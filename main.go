package main

import (
	"context"

	"github.com/birlikweb/cms/config"
	"github.com/birlikweb/cms/models"
	"github.com/birlikweb/cms/repository"
	"github.com/birlikweb/cms/routes"
	"github.com/birlikweb/cms/storage"
	"github.com/birlikweb/cms/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.ContentItem{})

	store, err := storage.New(cfg, utils.Sugar)
	if err != nil {
		utils.Sugar.Fatalf("storage init failed: %v", err)
	}

	// Bootstrap the first admin account when the users table is empty.
	if err := ensureAdmin(cfg, repository.NewUserRepository(db)); err != nil {
		utils.Sugar.Fatalf("admin bootstrap failed: %v", err)
	}

	r := routes.SetupRouter(db, store)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}

func ensureAdmin(cfg config.AppConfig, users repository.UserRepository) error {
	count, err := users.Count(context.Background())
	if err != nil || count > 0 {
		return err
	}
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		utils.Sugar.Warn("users table is empty and no bootstrap admin configured")
		return nil
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := &models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		DisplayName:  cfg.AdminDisplayName,
		Role:         models.RoleAdmin,
	}
	if err := users.Create(context.Background(), admin); err != nil {
		return err
	}
	utils.Sugar.Infow("bootstrap admin created", "username", admin.Username)
	return nil
}
