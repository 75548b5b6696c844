package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/nandanugg/speedcam/config"
	"github.com/nandanugg/speedcam/module/core"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	slog.SetDefault(config.NewLogger(cfg))

	db, err := config.NewStore(cfg)
	if err != nil {
		log.Fatalf("%s: %v", cfg.Store.Driver, err)
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	defer mqttClient.Disconnect(250)

	coreModule, err := core.Build(db, amqpConn, mqttClient, prometheus.DefaultRegisterer, core.Options{
		StoreDriver:   cfg.Store.Driver,
		Engine:        cfg.EngineConfig(),
		IndexFailOpen: cfg.Engine.IndexFailOpen,
		PositionTopic: cfg.MQTT.PositionTopic,
		SpeedTopic:    cfg.MQTT.SpeedTopic,
	})
	if err != nil {
		log.Fatalf("core module: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := coreModule.Store.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if err := coreModule.StartSubscribers(ctx); err != nil {
		log.Fatalf("start subscribers: %v", err)
	}
	defer coreModule.StopSubscribers()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	health := config.NewHealthChecker(cfg.Store.Driver, db, amqpConn, mqttClient)
	health.Register(r)

	coreModule.RegisterRoutes(&r.RouterGroup)

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: r}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return coreModule.Run(gctx)
	})
	g.Go(func() error {
		slog.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "err", err)
	}
	slog.Info("shutdown complete")
}
