package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MRamiBalles/CommitClicker/server/internal/engine"
	"github.com/MRamiBalles/CommitClicker/server/internal/events"
	"github.com/MRamiBalles/CommitClicker/server/internal/infra/storage"
	"github.com/MRamiBalles/CommitClicker/server/internal/network"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/logger"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/metrics"
	"github.com/MRamiBalles/CommitClicker/server/internal/session"
)

var listenFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenFlag, "listen", "", "Listen address (overrides the config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	appLogger := logger.NewLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenFlag != "" {
		cfg.Listen = listenFlag
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Infof("Initializing SQLite database %q...", cfg.DBPath)
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize sqlite: %w", err)
	}
	defer db.Close()

	m := metrics.NewMetrics()

	appLogger.Info("Bootstrapping EventLog...")
	eventRepo := storage.NewSQLiteEventRepository(db)
	eventLog := events.NewEventLog(&storage.EventPersister{Repo: eventRepo, OnWrite: m.IncEventWrite})
	eventLog.SetCapacity(cfg.EventLogCapacity)
	eventLog.OnPersistError(func(err error) {
		appLogger.Errorf("event write failed: %v", err)
	})
	n, err := storage.NewReconstructor(eventRepo).Rebuild(ctx, eventLog, cfg.EventLogCapacity)
	if err != nil {
		return fmt.Errorf("rebuild event log: %w", err)
	}
	appLogger.Infof("Recovered %d events from history", n)

	appLogger.Info("Bootstrapping Engine...")
	eng := engine.New(cat, engine.WithEventSink(session.NewSink(eventLog, appLogger)))
	game := session.New(eng,
		session.WithLogger(appLogger),
		session.WithMetrics(m),
		session.WithSaves(storage.NewSQLiteSaveRepository(db), cfg.SaveKey),
		session.WithBugSpawnRate(cfg.BugSpawnRate),
	)
	if err := game.Load(ctx); err != nil {
		return err
	}

	ticker := session.NewTicker(game, cfg.TickInterval, cfg.SaveInterval)
	tickerDone := make(chan struct{})
	go func() {
		ticker.Start(ctx)
		close(tickerDone)
	}()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(game, appLogger, m)
	go hub.Run(ctx)
	hub.StartStateBroadcaster(ctx, cfg.BroadcastInterval)
	hub.StartEventPoller(ctx, eventLog)

	api := network.NewAPI(game, hub, eventLog, m, appLogger, network.Limits{
		SendBuffer:          cfg.ClientSendBuffer,
		MaxActionsPerSecond: cfg.MaxActionsPerSecond,
		ActionBurst:         cfg.ActionBurst,
		MaxClients:          cfg.MaxClients,
	})
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Infof("HTTP API & WS server listening on %s", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		appLogger.Info("Shutting down...")
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Warnf("http shutdown: %v", err)
	}
	<-tickerDone
	return runErr
}
