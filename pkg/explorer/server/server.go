package server

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"

	"github.com/garunski/api-explorer/pkg/explorer/api"
	"github.com/garunski/api-explorer/pkg/explorer/controller"
	"github.com/garunski/api-explorer/pkg/explorer/database"
	"github.com/garunski/api-explorer/pkg/explorer/events"
	"github.com/garunski/api-explorer/pkg/explorer/storage"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

// Config holds server configuration
type Config struct {
	AppName            string
	AppVersion         string
	DataPath           string
	Port               string
	Storage            string
	Redis              storage.RedisConfig
	StorageQuota       int
	LogRetentionDays   int
	LogCleanupInterval time.Duration
	Controller         controller.Options
	CustomTemplateFS   *embed.FS // Optional custom templates
}

type Server struct {
	config     *Config
	logger     logr.Logger
	clock      clock.WithTicker
	db         *database.DB
	store      storage.Store
	eventStore events.EventStorage
	page       *view.Page
	controller *controller.Controller
	handler    *api.Handler
	httpServer *http.Server

	// runCtx bounds background runs, the automatic connection test and the
	// event cleanup; cancelRuns ends them on shutdown.
	runCtx     context.Context
	cancelRuns context.CancelFunc
	workers    sync.WaitGroup
}

// NewServer wires storage, the page model, the controller and the HTTP
// handler together.
func NewServer(cfg *Config, logger logr.Logger) (*Server, error) {
	components, err := NewStorageComponents(cfg, logger)
	if err != nil {
		return nil, err
	}

	page := view.NewPage(controller.SlotNames(),
		view.WithInput(controller.PlaceholderURL),
		view.WithControl(controller.ControlTestConnection, controller.LabelTestConnection),
		view.WithControl(controller.ControlFetchAll, controller.LabelFetchAll),
		view.WithClipboard(view.NewBrowserClipboard(clock.RealClock{}, DefaultCopyResultTimeout)),
	)

	ctrl := controller.New(page, components.Store, logger.WithName("controller"), cfg.Controller,
		controller.WithEventStore(components.EventStore))

	runCtx, cancelRuns := context.WithCancel(context.Background())
	handler, err := api.NewHandler(
		ctrl,
		page,
		components.Store,
		components.EventStore,
		logger.WithName("api"),
		cfg.AppName,
		cfg.AppVersion,
		runCtx,
		cfg.CustomTemplateFS,
	)
	if err != nil {
		cancelRuns()
		components.Store.Close()
		components.DB.Close()
		return nil, fmt.Errorf("failed to create handler: %w", err)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		config:     cfg,
		logger:     logger,
		clock:      clock.RealClock{},
		db:         components.DB,
		store:      components.Store,
		eventStore: components.EventStore,
		page:       page,
		controller: ctrl,
		handler:    handler,
		httpServer: httpServer,
		runCtx:     runCtx,
		cancelRuns: cancelRuns,
	}, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Close() error {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(err, "failed to close settings store")
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
