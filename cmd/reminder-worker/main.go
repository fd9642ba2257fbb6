package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clinicore/agenda-api/internal/appointment"
	"github.com/clinicore/agenda-api/internal/config"
	"github.com/clinicore/agenda-api/internal/db"
	"github.com/clinicore/agenda-api/internal/inventory"
	"github.com/clinicore/agenda-api/internal/logging"
	"github.com/clinicore/agenda-api/internal/notification"
	redisclient "github.com/clinicore/agenda-api/internal/redis"
)

// The worker does three periodic jobs: flag Agendado appointments whose
// end time passed the grace period as NoAsistio, queue next-day
// reminders for therapists, and queue overdue-loan notices.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	log := logging.New(cfg.Env)
	defer log.Sync()

	log.Info("reminder-worker starting",
		zap.String("env", cfg.Env),
		zap.Duration("interval", cfg.WorkerInterval))

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

	rdb, err := redisclient.New(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal("redis connection error", zap.Error(err))
	}
	defer rdb.Close()
	log.Info("connected to Redis")

	w := &worker{
		appts:         appointment.NewService(appointment.NewPgRepository(pgPool), redisclient.NewRedisAgendaLocker(rdb, cfg.LockTTL), log),
		inventory:     inventory.NewService(inventory.NewPgRepository(pgPool), log),
		notifications: notification.NewPgRepository(pgPool),
		grace:         cfg.NoShowGrace,
		log:           log,
	}

	w.runOnce(rootCtx)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Info("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			w.runOnce(rootCtx)
		}
	}
}

type worker struct {
	appts         *appointment.Service
	inventory     *inventory.Service
	notifications notification.Repository
	grace         time.Duration
	log           *zap.Logger
}

func (w *worker) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	w.markNoShows(runCtx)
	w.queueReminders(runCtx)
	w.queueOverdueLoans(runCtx)
	w.log.Info("worker run complete", zap.Duration("took", time.Since(start)))
}

func (w *worker) markNoShows(ctx context.Context) {
	marked, err := w.appts.MarkNoShows(ctx, time.Now(), w.grace)
	if err != nil {
		w.log.Error("mark no-shows", zap.Error(err))
		return
	}
	if marked > 0 {
		w.log.Info("marked no-shows", zap.Int("count", marked))
	}
}

func (w *worker) queueReminders(ctx context.Context) {
	tomorrow := time.Now().AddDate(0, 0, 1)

	appts, err := w.appts.ListByDay(ctx, tomorrow)
	if err != nil {
		w.log.Error("list tomorrow's appointments", zap.Error(err))
		return
	}

	queued := 0
	for _, n := range notification.BuildReminders(appts, tomorrow) {
		inserted, err := w.notifications.Create(ctx, n)
		if err != nil {
			w.log.Error("queue reminder", zap.Error(err))
			continue
		}
		if inserted {
			queued++
		}
	}
	if queued > 0 {
		w.log.Info("queued appointment reminders", zap.Int("count", queued))
	}
}

func (w *worker) queueOverdueLoans(ctx context.Context) {
	overdue, err := w.inventory.Overdue(ctx, time.Now())
	if err != nil {
		w.log.Error("list overdue loans", zap.Error(err))
		return
	}

	queued := 0
	for _, l := range overdue {
		refID := l.ID
		inserted, err := w.notifications.Create(ctx, notification.Notification{
			UserID:  l.PatientID,
			Kind:    notification.KindLoanOverdue,
			Message: "Prestamo vencido: " + l.ItemName + " desde " + l.DueDate.Format("2006-01-02"),
			RefID:   &refID,
		})
		if err != nil {
			w.log.Error("queue overdue notice", zap.Error(err))
			continue
		}
		if inserted {
			queued++
		}
	}
	if queued > 0 {
		w.log.Info("queued overdue loan notices", zap.Int("count", queued))
	}
}
