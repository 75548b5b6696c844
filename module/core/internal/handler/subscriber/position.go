package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nandanugg/speedcam/module/core/domain"
	"github.com/nandanugg/speedcam/module/core/geo"
)

type speedService interface {
	Observe(ctx context.Context, sample domain.SpeedSample) (*domain.SpeedStatus, error)
}

type positionMessage struct {
	VehicleID string   `json:"vehicle_id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Timestamp int64    `json:"timestamp"`
	Speed     *float64 `json:"speed,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
}

type speedMessage struct {
	VehicleID string  `json:"vehicle_id"`
	Speed     float64 `json:"speed"`
	Timestamp int64   `json:"timestamp"`
}

// PositionSubscriber bridges the MQTT feeds to the monitor. Fixes are handed
// over in delivery order; a full queue blocks the MQTT callback rather than
// dropping fixes.
type PositionSubscriber struct {
	client        mqtt.Client
	positionTopic string
	speedTopic    string
	fixes         chan<- domain.PositionFix
	speedSvc      speedService
	done          <-chan struct{}
}

func NewPositionSubscriber(client mqtt.Client, positionTopic, speedTopic string, fixes chan<- domain.PositionFix, speedSvc speedService) *PositionSubscriber {
	return &PositionSubscriber{
		client:        client,
		positionTopic: positionTopic,
		speedTopic:    speedTopic,
		fixes:         fixes,
		speedSvc:      speedSvc,
	}
}

func (s *PositionSubscriber) Start(ctx context.Context) error {
	s.done = ctx.Done()

	token := s.client.Subscribe(s.positionTopic, 1, s.handlePosition)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.positionTopic, err)
	}

	if s.speedTopic == "" {
		return nil
	}
	token = s.client.Subscribe(s.speedTopic, 1, s.handleSpeed)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.speedTopic, err)
	}
	return nil
}

func (s *PositionSubscriber) Stop() {
	topics := []string{s.positionTopic}
	if s.speedTopic != "" {
		topics = append(topics, s.speedTopic)
	}
	token := s.client.Unsubscribe(topics...)
	token.WaitTimeout(time.Second)
}

func (s *PositionSubscriber) handlePosition(_ mqtt.Client, msg mqtt.Message) {
	var raw positionMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		slog.Warn("invalid position message", "err", err, "topic", msg.Topic())
		return
	}

	if err := validatePositionMessage(&raw); err != nil {
		slog.Warn("position validation error", "err", err, "topic", msg.Topic())
		return
	}

	fix := domain.PositionFix{
		VehicleID: raw.VehicleID,
		Lat:       raw.Latitude,
		Lon:       raw.Longitude,
		Speed:     raw.Speed,
		Heading:   raw.Heading,
		Timestamp: time.Unix(raw.Timestamp, 0),
	}

	select {
	case s.fixes <- fix:
	case <-s.done:
	}
}

func (s *PositionSubscriber) handleSpeed(_ mqtt.Client, msg mqtt.Message) {
	var raw speedMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		slog.Warn("invalid speed message", "err", err, "topic", msg.Topic())
		return
	}
	if err := validateSpeedMessage(&raw); err != nil {
		slog.Warn("speed validation error", "err", err, "topic", msg.Topic())
		return
	}

	sample := domain.SpeedSample{
		VehicleID: raw.VehicleID,
		SpeedKmh:  raw.Speed,
		Timestamp: time.Unix(raw.Timestamp, 0),
	}
	if _, err := s.speedSvc.Observe(context.Background(), sample); err != nil {
		slog.Error("speed observe error", "err", err)
	}
}

func validatePositionMessage(msg *positionMessage) error {
	if msg.VehicleID == "" {
		return fmt.Errorf("vehicle_id: required")
	}
	if !geo.IsValidLatLon(msg.Latitude, msg.Longitude) {
		return fmt.Errorf("coordinates: (%v, %v) out of range", msg.Latitude, msg.Longitude)
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	if msg.Speed != nil && *msg.Speed < 0 {
		return fmt.Errorf("speed: must not be negative")
	}
	if msg.Heading != nil && (*msg.Heading < 0 || *msg.Heading >= 360) {
		return fmt.Errorf("heading: must be in [0, 360)")
	}
	return nil
}

func validateSpeedMessage(msg *speedMessage) error {
	if msg.VehicleID == "" {
		return fmt.Errorf("vehicle_id: required")
	}
	if msg.Speed < 0 || math.IsNaN(msg.Speed) {
		return fmt.Errorf("speed: must not be negative")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
