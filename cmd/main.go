package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "reflow_oven/docs"
	"reflow_oven/internal/config"
	"reflow_oven/internal/handlers"
	"reflow_oven/internal/hardware"
	"reflow_oven/internal/logger"
	"reflow_oven/internal/oven"
	"reflow_oven/internal/pid"
	"reflow_oven/internal/repository"
	"reflow_oven/internal/repository/db"
	"reflow_oven/internal/server"
	"reflow_oven/internal/service"
	"reflow_oven/internal/telemetry"
	"reflow_oven/internal/thermo"
)

// @title                       Reflow Oven API
// @version                     1.0
// @description                 Operates a reflow/bake oven: bake, reflow profiles, manual modes, settings and event history.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load configs/config.yml, .env and OVEN_* overrides
	cfg, err := config.Load("configs")
	if err != nil {
		logger.New(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.New(cfg.Log.Level)

	// open DB
	sqlDB, err := openDB(cfg.DB.Path, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	plant := newPlant(ctx, cfg, repos, log)

	pub := newPublisher(cfg, log)
	defer func() { _ = pub.Close() }()

	services := service.NewService(service.Deps{
		Repos:          repos,
		Plant:          plant,
		Publisher:      pub,
		Log:            log,
		StatusInterval: cfg.Telemetry.Interval,
		SigningKey:     cfg.Auth.SigningKey,
		TokenTTL:       cfg.Auth.TokenTTL,
	})
	if err := services.Settings.ApplyStored(ctx); err != nil {
		log.Warnw("stored settings not applied", "err", err)
	}
	apiHandler := handlers.NewHandler(services, log)

	// start the controller loop
	runnerDone := make(chan struct{})
	go func() {
		services.Runner.Run(ctx, cfg.Oven.Tick)
		close(runnerDone)
	}()

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)
	log.Infow("oven service started", "port", cfg.Port, "tick", cfg.Oven.Tick, "mqtt", cfg.MQTT.Broker != "")

	// graceful shutdown
	waitForShutdown(cancel, runnerDone, srv, log)
}

// openDB initializes the SQLite database.
func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		path = "app.db"
	}
	return db.InitDB(path)
}

// newPlant builds the simulated oven, the regulator and the controller.
func newPlant(ctx context.Context, cfg *config.Config, repos *repository.Repository, log *logger.Logger) *service.Plant {
	clock := oven.NewSystemClock()
	sim := hardware.NewSimOven(clock,
		hardware.WithAmbient(thermo.FromCelsius(cfg.Sim.AmbientC)),
		hardware.WithNoise(cfg.Sim.NoiseC*10),
	)
	reg := pid.New(clock, pid.DefaultParams)
	ctl := oven.New(sim, reg, clock, log)
	profiles := service.LoadProfileStore(ctx, repos.Profiles, log)
	return service.NewPlant(ctl, sim, reg, profiles)
}

// newPublisher connects to the MQTT broker, or returns a no-op publisher when
// none is configured or the broker is unreachable.
func newPublisher(cfg *config.Config, log *logger.Logger) telemetry.Publisher {
	if cfg.MQTT.Broker == "" {
		return telemetry.NopPublisher{}
	}
	pub, err := telemetry.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.TopicPrefix)
	if err != nil {
		log.Warnw("mqtt disabled", "broker", cfg.MQTT.Broker, "err", err)
		return telemetry.NopPublisher{}
	}
	return pub
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, runnerDone <-chan struct{}, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the controller; the runner turns the heater off before returning
	cancel()
	<-runnerDone

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
