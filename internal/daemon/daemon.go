package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/purpleschool/purpleschool/internal/api"
	"github.com/purpleschool/purpleschool/internal/app/progress"
	"github.com/purpleschool/purpleschool/internal/auth"
	"github.com/purpleschool/purpleschool/internal/health"
	"github.com/purpleschool/purpleschool/internal/infra/store"
)

// Daemon is the core PurpleSchool runtime. It wires together all services.
type Daemon struct {
	Config   Config
	DB       *store.SQLite
	Engine   *progress.Engine
	Accounts *auth.Client
	Server   *api.Server
	Health   *health.Checker

	cron   *cron.Cron
	log    *logrus.Entry
	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New(version string) (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg, version)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config, version string) (*Daemon, error) {
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logrus.SetLevel(level)
	}
	log := logrus.StandardLogger().WithField("component", "daemon")

	db, err := store.OpenSQLite(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	policy := progress.DefaultDecayPolicy()
	if cfg.Progress.GraceDays > 0 {
		policy.GraceDays = cfg.Progress.GraceDays
	}
	if cfg.Progress.FreezeDays > 0 {
		policy.FreezeDays = cfg.Progress.FreezeDays
	}
	if cfg.Progress.DailyPercent > 0 {
		policy.DailyPercent = cfg.Progress.DailyPercent
	}
	if cfg.Progress.MaxPercent > 0 {
		policy.MaxPercent = cfg.Progress.MaxPercent
	}

	eng := progress.NewEngine(db, progress.WithDecayPolicy(policy))
	eng.Load()

	srv := api.NewServer(eng, version)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	d := &Daemon{
		Config: cfg,
		DB:     db,
		Engine: eng,
		Server: srv,
		log:    log,
	}

	if cfg.Auth.Enabled {
		d.Accounts = auth.NewClient(cfg.Auth.BaseURL, db)
		srv.SetAccounts(d.Accounts)
	}

	d.Health = health.NewChecker(db, cfg.Storage.Dir)
	srv.SetHealth(d.Health)

	// Daily decay evaluation. The engine also evaluates on Load, so a
	// daemon that was down at the scheduled time still catches up.
	d.cron = cron.New()
	spec := cfg.Progress.DecaySpec
	if spec == "" {
		spec = "5 0 * * *"
	}
	if _, err := d.cron.AddFunc(spec, func() {
		if loss := d.Engine.ApplyDecay(); loss > 0 {
			d.log.WithField("xp_lost", loss).Info("daily decay applied")
		}
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("schedule decay job: %w", err)
	}

	return d, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.cron.Start()

	go d.Health.Run(ctx)

	// Study-time ticker keeps long sessions credited even if the UI
	// never sends an explicit tick.
	go d.Engine.RunTicker(ctx, d.Config.Progress.TickInterval())

	addr := fmt.Sprintf("%s:%d", d.Config.Server.Host, d.Config.Server.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		stopped := d.cron.Stop()
		<-stopped.Done()

		d.Engine.RecordSessionComplete()
		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	d.log.WithField("addr", addr).Info("serving")
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.cron != nil {
		d.cron.Stop()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
