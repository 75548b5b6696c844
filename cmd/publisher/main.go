package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

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

const metersPerDegreeLat = 6371000 * math.Pi / 180

// drive is a straight northbound pass over a camera, starting startM south
// of it and ending the same distance north.
type drive struct {
	cameraLat, cameraLon float64
	startM               float64
	offsetM              float64
}

func (d *drive) advance(speedKmh float64, dt time.Duration) bool {
	d.offsetM += speedKmh / 3.6 * dt.Seconds()
	return d.offsetM <= 2*d.startM
}

func (d *drive) position() (float64, float64) {
	return d.cameraLat + (d.offsetM-d.startM)/metersPerDegreeLat, d.cameraLon
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}
	vehicleID := "car-1"
	if v := os.Getenv("VEHICLE_ID"); v != "" {
		vehicleID = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("speedcam-mock-publisher")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	d := &drive{
		cameraLat: envFloat("CAMERA_LAT", 25.0330),
		cameraLon: envFloat("CAMERA_LON", 121.5654),
		startM:    envFloat("START_M", 1800),
	}
	cruise := envFloat("CRUISE_KMH", 65)
	interval := time.Duration(intervalSec) * time.Second

	positionTopic := fmt.Sprintf("/speedcam/vehicle/%s/position", vehicleID)
	speedTopic := fmt.Sprintf("/speedcam/vehicle/%s/speed", vehicleID)

	log.Printf("connected to %s, driving %s past (%.5f, %.5f) every %ds...",
		broker, vehicleID, d.cameraLat, d.cameraLon, intervalSec)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	heading := 0.0
	for range ticker.C {
		speed := cruise + (rand.Float64()-0.5)*10
		if !d.advance(speed, interval) {
			log.Printf("drive finished")
			return
		}
		lat, lon := d.position()
		now := time.Now().Unix()

		pos, _ := json.Marshal(positionMessage{
			VehicleID: vehicleID,
			Latitude:  lat,
			Longitude: lon,
			Timestamp: now,
			Speed:     &speed,
			Heading:   &heading,
		})
		token := client.Publish(positionTopic, 1, false, pos)
		token.Wait()

		spd, _ := json.Marshal(speedMessage{VehicleID: vehicleID, Speed: speed, Timestamp: now})
		token = client.Publish(speedTopic, 1, false, spd)
		token.Wait()

		log.Printf("published to %s: %s", positionTopic, pos)
	}
}
