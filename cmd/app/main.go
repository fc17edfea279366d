package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderwizard/cmd"
	httpin "orderwizard/internal/adapters/in/http"
	"orderwizard/internal/adapters/out/postgres/sessionrepo"
	"orderwizard/internal/core/application/refcache"
	"orderwizard/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustGormOpen(configs.DSN())
	mustAutoMigrate(gormDB)

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.RunHub(ctx)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	defaults := refcache.DefaultTTLs()
	schedules := jobs.DefaultSchedules()
	config := cmd.Config{
		HTTPPort:       envOr("HTTP_PORT", "8080"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         envOr("DB_PORT", "5432"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBSslMode:      envOr("DB_SSLMODE", "disable"),
		BackendURL:     os.Getenv("BACKEND_URL"),
		BackendTimeout: durationEnv("BACKEND_TIMEOUT", 10*time.Second),
		SessionIdleTTL: durationEnv("SESSION_IDLE_TTL", 30*time.Minute),
		CacheTTLs: refcache.TTLs{
			Categories: durationEnv("CACHE_TTL_CATEGORIES", defaults.Categories),
			PriceList:  durationEnv("CACHE_TTL_PRICE_LIST", defaults.PriceList),
			Materials:  durationEnv("CACHE_TTL_MATERIALS", defaults.Materials),
			Colors:     durationEnv("CACHE_TTL_COLORS", defaults.Colors),
		},
		Schedules: jobs.Schedules{
			SessionExpiry: envOr("SESSION_EXPIRY_SCHEDULE", schedules.SessionExpiry),
			CacheSweep:    envOr("CACHE_SWEEP_SCHEDULE", schedules.CacheSweep),
		},
	}
	return config
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Fatalf("Invalid %s %q: must be a positive duration", key, v)
	}
	return d
}

func mustGormOpen(dsn string) *gorm.DB {
	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func mustAutoMigrate(db *gorm.DB) {
	if err := db.AutoMigrate(&sessionrepo.SessionDTO{}); err != nil {
		log.Fatalf("Failed to migrate session store: %v", err)
	}
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	e.Validator = httpin.NewRequestValidator()

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	app.CreateServer().Register(e)
	e.GET("/ws/wizard/sessions/:id", app.Hub().Handler(app.CreateSessionLookup()))

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
