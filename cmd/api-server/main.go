package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clinicore/agenda-api/internal/api"
	"github.com/clinicore/agenda-api/internal/appointment"
	"github.com/clinicore/agenda-api/internal/config"
	"github.com/clinicore/agenda-api/internal/dayconfig"
	"github.com/clinicore/agenda-api/internal/db"
	"github.com/clinicore/agenda-api/internal/inventory"
	"github.com/clinicore/agenda-api/internal/logging"
	"github.com/clinicore/agenda-api/internal/notification"
	"github.com/clinicore/agenda-api/internal/payment"
	redisclient "github.com/clinicore/agenda-api/internal/redis"
	"github.com/clinicore/agenda-api/internal/report"
	"github.com/clinicore/agenda-api/internal/space"
	"github.com/clinicore/agenda-api/internal/user"
	"github.com/clinicore/agenda-api/migrations"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	log := logging.New(cfg.Env)
	defer log.Sync()

	log.Info("api-server starting",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("version", version))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	log.Info("connected to Postgres")

	migCtx, cancelMig := context.WithTimeout(rootCtx, 30*time.Second)
	err = db.Migrate(migCtx, pgPool, migrations.FS)
	cancelMig()
	if err != nil {
		log.Fatal("migration error", zap.Error(err))
	}
	log.Info("migrations applied")

	rdb, err := redisclient.New(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn("closing redis", zap.Error(err))
		}
	}()
	log.Info("connected to Redis")

	apptRepo := appointment.NewPgRepository(pgPool)
	locker := redisclient.NewRedisAgendaLocker(rdb, cfg.LockTTL)
	apptSvc := appointment.NewService(apptRepo, locker, log)

	configStore := dayconfig.NewStore(dayconfig.NewPgRepository(pgPool), rdb, cfg.DayConfigTTL, log)

	userRepo := user.NewPgRepository(pgPool)
	authSvc := user.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)

	router := api.NewRouter(api.RouterConfig{
		Appointments:  apptSvc,
		DayConfigs:    configStore,
		Spaces:        space.NewPgRepository(pgPool),
		Users:         userRepo,
		Auth:          authSvc,
		Payments:      payment.NewPgRepository(pgPool),
		Inventory:     inventory.NewService(inventory.NewPgRepository(pgPool), log),
		Stats:         report.NewStatsRepository(pgPool),
		Notifications: notification.NewPgRepository(pgPool),
		PgPool:        pgPool,
		Redis:         rdb,
		Log:           log,
		Env:           cfg.Env,
		Version:       version,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.Error("http server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("api-server stopped")
}
