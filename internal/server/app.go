// Package server initializes and runs the registry application: it selects
// the storage backend, runs migrations, wires services, and handles graceful
// shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/artledger/internal/logging"
	"github.com/dmitrijs2005/artledger/internal/server/config"
	"github.com/dmitrijs2005/artledger/internal/server/events"
	"github.com/dmitrijs2005/artledger/internal/server/keygen"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/artledger/internal/server/rest"
	"github.com/dmitrijs2005/artledger/internal/server/services"
)

type App struct {
	config           *config.Config
	logger           logging.Logger
	manager          repomanager.RepositoryManager
	bus              *events.Bus
	principalService *services.PrincipalService
	registryService  *services.RegistryService
	contentService   *services.ContentService
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	manager, err := newRepositoryManager(c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	generator, err := newKeyGenerator(c)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()

	ps := services.NewPrincipalService(manager, logger, c)
	rs := services.NewRegistryService(manager, generator, bus, logger, c)
	cs := services.NewContentService(rs, c)

	return &App{
		config:           c,
		logger:           logger,
		manager:          manager,
		bus:              bus,
		principalService: ps,
		registryService:  rs,
		contentService:   cs,
	}, nil
}

// newRepositoryManager selects the backend: an empty DSN means in-memory.
func newRepositoryManager(c *config.Config) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		return repomanager.NewMemoryRepositoryManager(), nil
	}
	return repomanager.NewPostgresRepositoryManager(c.DatabaseDSN)
}

func newKeyGenerator(c *config.Config) (keygen.Generator, error) {
	switch c.KeyGenMode {
	case config.KeyGenModeUnique:
		return keygen.NewUnique(keygen.CryptoSource{}), nil
	case config.KeyGenModeLegacy:
		return keygen.NewLegacy(keygen.CryptoSource{}), nil
	default:
		return nil, fmt.Errorf("unknown key generator mode: %s", c.KeyGenMode)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// logEvents drains the domain-event stream into the structured log.
func (app *App) logEvents(ctx context.Context, ch <-chan events.Event) {
	for e := range ch {
		app.logger.Info(ctx, "domain event", "event", e.Name())
	}
}

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := rest.NewServer(app.config.EndpointAddr, app.logger,
		app.principalService, app.registryService, app.contentService,
		app.config.SecretKey, app.config.RequestTimeout)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.manager.RunMigrations(ctx); err != nil {
		app.logger.Error(ctx, "migration error", "error", err.Error())
		return
	}

	var wg sync.WaitGroup

	eventCh := app.bus.Subscribe(64)
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.logEvents(ctx, eventCh)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()

	<-ctx.Done()
	app.bus.Close()

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "storage close error", "error", err.Error())
	}
}
