package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"bistro/config"
	"bistro/internal/domain/lifecycle"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	poolMonitorInterval = 5 * time.Second
	poolWaitWarnAfter   = 50 * time.Millisecond
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the gorm handle on the remote relational store holding catalog,
// favorites, orders and reviews. The connection is checked on start and the pool is
// watched for checkout waits until stop.
func New(params Params) (*gorm.DB, error) {
	if params.Config.Postgres == nil {
		return nil, errors.New("postgres configuration is missing")
	}

	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open the bistro database")
	}
	// Multi-step writes such as checkout go through txManager.Execute, so the
	// per-statement implicit transaction is skipped.
	db = db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config.Env.Debug, defaultGormSlowThreshold),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get the bistro database pool")
	}

	monitor := &poolMonitor{logger: params.Logger, pool: sqlDB, interval: poolMonitorInterval}
	monitorCtx, stopMonitor := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to reach the bistro database")
			}
			params.Logger.Info("Connected to the bistro database", "maxOpenConns", sqlDB.Stats().MaxOpenConnections)

			go monitor.run(monitorCtx)

			return nil
		},
		OnStop: func(context.Context) error {
			stopMonitor()

			return errors.Wrap(sqlDB.Close(), "failed to close the bistro database")
		},
	})

	return db, nil
}

// poolMonitor logs when requests had to wait for a free connection.
type poolMonitor struct {
	logger   *slog.Logger
	pool     *sql.DB
	interval time.Duration
}

func (m *poolMonitor) run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	prev := m.pool.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := m.pool.Stats()
			if wait, ok := poolWaitBetween(prev, cur); ok {
				m.logger.LogAttrs(ctx, wait.level(), "Postgres pool wait", wait.attrs()...)
			}
			prev = cur
		}
	}
}

// poolWait is the connection wait that happened between two pool samples.
type poolWait struct {
	count    int64
	duration time.Duration
	stats    sql.DBStats
}

// poolWaitBetween reports false when nobody waited between prev and cur.
func poolWaitBetween(prev, cur sql.DBStats) (poolWait, bool) {
	count := cur.WaitCount - prev.WaitCount
	if count <= 0 {
		return poolWait{}, false
	}

	return poolWait{count: count, duration: cur.WaitDuration - prev.WaitDuration, stats: cur}, true
}

func (w poolWait) average() time.Duration {
	return w.duration / time.Duration(w.count)
}

func (w poolWait) level() slog.Level {
	if w.duration >= poolWaitWarnAfter {
		return slog.LevelWarn
	}

	return slog.LevelDebug
}

func (w poolWait) attrs() []slog.Attr {
	return []slog.Attr{
		slog.Int64("waits", w.count),
		slog.Duration("waited", w.duration),
		slog.Duration("avgWait", w.average()),
		slog.Int("openConns", w.stats.OpenConnections),
		slog.Int("inUseConns", w.stats.InUse),
		slog.Int("idleConns", w.stats.Idle),
		slog.Int("maxOpenConns", w.stats.MaxOpenConnections),
	}
}
