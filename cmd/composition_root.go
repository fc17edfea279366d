package cmd

import (
	"context"
	"log/slog"

	httpin "orderwizard/internal/adapters/in/http"
	"orderwizard/internal/adapters/in/ws"
	"orderwizard/internal/adapters/out/backend"
	"orderwizard/internal/adapters/out/postgres"
	"orderwizard/internal/core/application/intake"
	"orderwizard/internal/core/application/usecases/commands"
	"orderwizard/internal/core/application/usecases/queries"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/validation"
	"orderwizard/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      kernel.Clock
	logger     *slog.Logger

	hub     *ws.Hub
	manager *intake.SessionManager
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:      kernel.SystemClock{},
		logger:     logger,
		hub:        ws.NewHub(logger),
	}
	c.manager = intake.NewSessionManager(c.uowFactory, intake.Deps{
		Gateways:  client.Gateways(),
		Validator: validation.New(),
		Events:    c.hub,
		Clock:     c.clock,
		Logger:    logger,
		CacheTTLs: cfg.CacheTTLs,
	}, cfg.SessionIdleTTL)
	return c, nil
}

// RunHub delivers wizard events to websocket clients until ctx is done.
func (c *CompositionRoot) RunHub(ctx context.Context) {
	c.hub.Run(ctx)
}

func (c *CompositionRoot) SessionManager() *intake.SessionManager {
	return c.manager
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(c.manager, c.CreateGetActiveSessionsQueryHandler())
}

func (c *CompositionRoot) CreateSessionLookup() func(id kernel.UUID) bool {
	return func(id kernel.UUID) bool {
		_, ok := c.manager.Lookup(id)
		return ok
	}
}

func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

func (c *CompositionRoot) CreateExpireSessionsCommandHandler() *commands.ExpireSessionsCommandHandler {
	var f commands.SessionUoWFactory = FuncSessionUoWFactory(func() commands.SessionUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewExpireSessionsCommandHandler(f, c.manager)
	return &h
}

func (c *CompositionRoot) CreateGetActiveSessionsQueryHandler() queries.GetActiveSessionsQueryHandler {
	return queries.NewGetActiveSessionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateExpireSessionsCommandHandler(),
		c.manager,
		c.cfg.SessionIdleTTL,
		c.clock,
		c.cfg.Schedules,
		c.logger,
	)
}

type FuncSessionUoWFactory func() commands.SessionUoW

func (f FuncSessionUoWFactory) Create() commands.SessionUoW {
	return f()
}
