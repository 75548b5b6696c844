package core

import (
	"context"
	"database/sql"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nandanugg/speedcam/module/core/domain"
	handler "github.com/nandanugg/speedcam/module/core/internal/handler/http"
	"github.com/nandanugg/speedcam/module/core/internal/handler/subscriber"
	"github.com/nandanugg/speedcam/module/core/internal/metrics"
	"github.com/nandanugg/speedcam/module/core/internal/repository/database"
	"github.com/nandanugg/speedcam/module/core/internal/repository/database/postgres"
	"github.com/nandanugg/speedcam/module/core/internal/repository/database/sqlite"
	"github.com/nandanugg/speedcam/module/core/internal/repository/publisher/rabbitmq"
	"github.com/nandanugg/speedcam/module/core/service"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Options struct {
	StoreDriver   string
	Engine        domain.EngineConfig
	IndexFailOpen bool
	PositionTopic string
	SpeedTopic    string
	FixBuffer     int
}

type Module struct {
	Store     database.HazardRepository
	Index     *service.HazardIndex
	Tracker   *service.Tracker
	Overspeed *service.OverspeedMonitor
	Monitor   *service.Monitor

	metrics    *metrics.Collector
	handler    *handler.TrackerHandler
	subscriber *subscriber.PositionSubscriber
	fixes      chan domain.PositionFix
}

// NewHazardStore picks the point store implementation for driver.
func NewHazardStore(driver string, db *sql.DB) (database.HazardRepository, error) {
	switch driver {
	case DriverPostgres, "":
		return postgres.NewHazardRepo(db), nil
	case DriverSQLite:
		return sqlite.NewHazardRepo(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, reg prometheus.Registerer, opts Options) (*Module, error) {
	store, err := NewHazardStore(opts.StoreDriver, db)
	if err != nil {
		return nil, err
	}

	collector, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	eventPub, err := rabbitmq.NewEventPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("event publisher: %w", err)
	}

	index := service.NewHazardIndex(store, opts.IndexFailOpen, collector)
	tracker, err := service.NewTracker(index, opts.Engine)
	if err != nil {
		return nil, err
	}
	overspeed := service.NewOverspeedMonitor(eventPub, collector)
	monitor := service.NewMonitor(tracker, eventPub, overspeed, collector)

	buffer := opts.FixBuffer
	if buffer <= 0 {
		buffer = 16
	}
	fixes := make(chan domain.PositionFix, buffer)

	h := handler.NewTrackerHandler(tracker, index, opts.Engine.SearchRadiusKM)
	sub := subscriber.NewPositionSubscriber(mqttClient, opts.PositionTopic, opts.SpeedTopic, fixes, overspeed)

	return &Module{
		Store:      store,
		Index:      index,
		Tracker:    tracker,
		Overspeed:  overspeed,
		Monitor:    monitor,
		metrics:    collector,
		handler:    h,
		subscriber: sub,
		fixes:      fixes,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/metrics", gin.WrapH(m.metrics.Handler()))
	m.handler.Register(r)
}

func (m *Module) StartSubscribers(ctx context.Context) error {
	return m.subscriber.Start(ctx)
}

func (m *Module) StopSubscribers() {
	m.subscriber.Stop()
}

// Run drives the monitor until ctx is cancelled.
func (m *Module) Run(ctx context.Context) error {
	return m.Monitor.Run(ctx, m.fixes)
}
