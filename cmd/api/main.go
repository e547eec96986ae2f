package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/events"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/memory"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "clinic-scheduler").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := timezone.NewClock(cfg.Location())

	// ======================================================
	// STORAGE
	// ======================================================
	var (
		repo  domain.Repository
		hours domain.HoursRepository
		trail ucAppointment.AuditTrail
		sinks []events.Sink
	)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		mem := memory.NewRepository(cfg.Location())
		audit := memory.NewAuditLog()
		repo, hours, trail = mem, mem, audit
		sinks = append(sinks, audit)
		logger.Warn().Msg("using in-memory storage, data is lost on restart")

	default:
		db, err := dbpkg.NewDB(cfg.DBUrl, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("database unavailable")
		}
		repo = infraRepo.NewAppointmentGormRepository(db, cfg.Location())
		hours = infraRepo.NewWorkingHoursGormRepository(db)
		trail = infraRepo.NewAuditLogGormRepository(db)
		sinks = append(sinks, events.NewAuditSink(db))
	}

	// ======================================================
	// LOCKING + NOTIFIER
	// ======================================================
	var locker domain.Locker = lock.NewLocalLocker()

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		client := redis.NewClient(opts)
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("redis unavailable")
		}

		locker = lock.NewRedisLocker(client, cfg.LockTTL, cfg.LockTTL)
		sinks = append(sinks, events.NewRedisSink(client, cfg.NotifyChannel))
	} else {
		sinks = append(sinks, events.NewLogSink(logger))
	}

	dispatcher := events.NewDispatcher(logger, events.DefaultQueueSize, sinks...)
	defer dispatcher.Close()

	// ======================================================
	// REMINDERS
	// ======================================================
	sweeper := ucAppointment.NewSendDueReminders(repo, dispatcher, clock, logger)
	go sweeper.Run(ctx, cfg.ReminderSweep)

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.Default()

	routes.RegisterRoutes(r, routes.Deps{
		Config: cfg,
		Repo:   repo,
		Hours:  hours,
		Audit:  trail,
		Locker: locker,
		Events: dispatcher,
		Clock:  clock,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
