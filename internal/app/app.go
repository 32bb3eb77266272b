package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/csshost/csshost/internal/config"
	"github.com/csshost/csshost/internal/db"
	"github.com/csshost/csshost/internal/feed"
	"github.com/csshost/csshost/internal/repository"
	"github.com/csshost/csshost/internal/service"
	"github.com/csshost/csshost/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Feed           feed.Feed
	AuthService    *service.AuthService
	UserService    *service.UserService
	FileService    *service.FileService
	ContentService *service.ContentService
	AdminService   *service.AdminService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	fileRepository := repository.NewFileRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Change feed
	changeFeed := feed.NewBroker()

	// Services
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
	)
	userService := service.NewUserService(userRepository, profileRepository)
	fileService := service.NewFileService(fileRepository, profileRepository, fileStorage, changeFeed, cfg.StorageQuota, cfg.MaxUploadSize)
	contentService := service.NewContentService(fileRepository, profileRepository, fileStorage, changeFeed, cfg.StorageQuota, cfg.MaxUploadSize)
	adminService := service.NewAdminService(userRepository, profileRepository, fileRepository)

	return &App{
		Cfg:            cfg,
		DB:             database,
		Feed:           changeFeed,
		AuthService:    authService,
		UserService:    userService,
		FileService:    fileService,
		ContentService: contentService,
		AdminService:   adminService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
