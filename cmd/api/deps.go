package main

import (
	"log"

	"finch/internal/domain/link"
	"finch/internal/domain/sync"
	"finch/internal/infrastructure/aggregator"
	"finch/internal/infrastructure/crypto"
	"finch/internal/infrastructure/postgres"
	httphandlers "finch/internal/interfaces/http"
	"finch/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	LinkHandler *httphandlers.LinkHandler
	SyncHandler *httphandlers.SyncHandler

	// Services (for scheduler)
	SyncService *sync.Service

	// Repositories (for scheduler job provider)
	UserRepo *postgres.UserRepository
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize encryptor
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	itemRepo := postgres.NewItemRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// Resolve the aggregator client (sandbox or live)
	client, err := aggregator.Resolve(aggregator.Config{
		Environment:      cfg.Aggregator.Environment,
		BaseURL:          cfg.Aggregator.BaseURL,
		ClientID:         cfg.Aggregator.ClientID,
		ClientSecret:     cfg.Aggregator.ClientSecret,
		UseSyntheticData: cfg.Aggregator.UseSyntheticData,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	// Initialize domain services
	syncService := sync.NewService(client, itemRepo, accountRepo, transactionRepo, encryptor)
	linkService := link.NewService(client, itemRepo, encryptor)

	// Initialize handlers
	linkHandler := httphandlers.NewLinkHandler(linkService)
	syncHandler := httphandlers.NewSyncHandler(syncService, cfg.Sync.WindowDays)

	return &Dependencies{
		DB:          db,
		LinkHandler: linkHandler,
		SyncHandler: syncHandler,
		SyncService: syncService,
		UserRepo:    userRepo,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
