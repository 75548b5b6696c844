package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/speedcam/module/core/domain"
	"github.com/nandanugg/speedcam/module/core/geo"
	"github.com/nandanugg/speedcam/module/core/service"
)

type trackerControl interface {
	Start()
	Stop()
	Snapshot() service.TrackerSnapshot
}

type hazardQuery interface {
	Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.NearbyHazard, error)
	Stats(ctx context.Context) (*domain.HazardStats, error)
}

type overspeedResponse struct {
	SpeedKmh float64              `json:"speed"`
	LimitKmh int                  `json:"limit"`
	Tier     domain.OverspeedTier `json:"tier"`
}

type TrackerHandler struct {
	tracker       trackerControl
	hazards       hazardQuery
	defaultRadius float64
}

func NewTrackerHandler(tracker trackerControl, hazards hazardQuery, defaultRadiusKm float64) *TrackerHandler {
	return &TrackerHandler{tracker: tracker, hazards: hazards, defaultRadius: defaultRadiusKm}
}

func (h *TrackerHandler) Register(r *gin.RouterGroup) {
	r.POST("/tracker/start", h.Start)
	r.POST("/tracker/stop", h.Stop)
	r.GET("/tracker/status", h.Status)
	r.GET("/hazards/nearby", h.Nearby)
	r.GET("/hazards/stats", h.Stats)
	r.GET("/overspeed", h.Overspeed)
}

func (h *TrackerHandler) Start(c *gin.Context) {
	h.tracker.Start()
	c.JSON(http.StatusOK, h.tracker.Snapshot())
}

func (h *TrackerHandler) Stop(c *gin.Context) {
	h.tracker.Stop()
	c.JSON(http.StatusOK, h.tracker.Snapshot())
}

func (h *TrackerHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Snapshot())
}

func (h *TrackerHandler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat parameter"})
		return
	}

	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lon parameter"})
		return
	}

	if !geo.IsValidLatLon(lat, lon) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	radius := h.defaultRadius
	if raw := c.Query("radius_km"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius_km parameter"})
			return
		}
	}

	hazards, err := h.hazards.Nearby(c.Request.Context(), lat, lon, radius)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrIndexUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": "failed to query hazards"})
		return
	}

	c.JSON(http.StatusOK, hazards)
}

func (h *TrackerHandler) Stats(c *gin.Context) {
	stats, err := h.hazards.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *TrackerHandler) Overspeed(c *gin.Context) {
	speed, err := strconv.ParseFloat(c.Query("speed"), 64)
	if err != nil || speed < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid speed parameter"})
		return
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
		return
	}

	c.JSON(http.StatusOK, overspeedResponse{
		SpeedKmh: speed,
		LimitKmh: limit,
		Tier:     service.ClassifyOverspeed(speed, limit),
	})
}
