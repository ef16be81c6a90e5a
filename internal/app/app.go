package app

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/handlers"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/services/datagov"
	"github.com/ternarybob/reperio/internal/services/msme"
	"github.com/ternarybob/reperio/internal/services/places"
	"github.com/ternarybob/reperio/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage (optional, place-lookup cache only)
	Store      *storage.BadgerDB
	PlaceCache interfaces.PlaceCache

	// Services
	DatasetService interfaces.DatasetService
	PlacesService  interfaces.PlacesService
	SearchService  interfaces.SearchService

	// HTTP handlers
	APIHandler  *handlers.APIHandler
	MSMEHandler *handlers.MSMEHandler
	MapsHandler *handlers.MapsHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.initServices()
	app.initHandlers()

	logger.Info().
		Bool("places_enabled", app.PlacesService.Enabled()).
		Bool("cache_enabled", app.PlaceCache != nil).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage opens the Badger-backed place-lookup cache. An empty storage
// path disables caching; every lookup then goes to the places API.
func (a *App) initStorage() error {
	if a.Config.Storage.Path == "" {
		a.Logger.Debug().Msg("Place cache disabled (no storage path configured)")
		return nil
	}

	db, err := storage.NewBadgerDB(a.Logger, &a.Config.Storage)
	if err != nil {
		return fmt.Errorf("failed to open badger store: %w", err)
	}
	a.Store = db
	a.PlaceCache = storage.NewPlaceCacheStorage(db, a.Config.Storage.CacheTTL, a.Logger)

	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Path).
		Msg("Place cache initialized")

	return nil
}

// initServices initializes business services in dependency order
func (a *App) initServices() {
	a.DatasetService = datagov.NewClient(
		a.Config.DataGov.APIKey,
		a.Config.DataGov.ResourceID,
		datagov.WithLogger(a.Logger),
		datagov.WithRateLimit(a.Config.DataGov.RateLimit),
		datagov.WithHTTPClient(&http.Client{Timeout: a.Config.DataGov.RequestTimeout}),
	)
	a.Logger.Debug().Str("resource_id", a.Config.DataGov.ResourceID).Msg("Dataset service initialized")

	a.PlacesService = places.NewService(
		&a.Config.PlacesAPI,
		a.PlaceCache,
		a.Logger,
		places.WithHTTPClient(&http.Client{Timeout: a.Config.PlacesAPI.RequestTimeout}),
	)
	a.Logger.Debug().Bool("enabled", a.PlacesService.Enabled()).Msg("Places service initialized")

	a.SearchService = msme.NewService(a.DatasetService, a.PlacesService, a.Config, a.Logger)
	a.Logger.Debug().Msg("Search service initialized")
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.MSMEHandler = handlers.NewMSMEHandler(a.SearchService, a.Logger)
	a.MapsHandler = handlers.NewMapsHandler(a.PlacesService, a.Logger)
}

// Close closes all application resources
func (a *App) Close() error {
	// PlaceCache delegates Close to the store, so closing the store once
	// covers both.
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
