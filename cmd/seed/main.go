package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nandanugg/speedcam/config"
	"github.com/nandanugg/speedcam/module/core"
	"github.com/nandanugg/speedcam/module/core/domain"
	"github.com/nandanugg/speedcam/module/core/geo"
)

type seedFile struct {
	Cameras []domain.HazardPoint `yaml:"cameras"`
}

func main() {
	path := flag.String("file", "cameras.yaml", "YAML file with a top-level cameras list")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	slog.SetDefault(config.NewLogger(cfg))

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read %s: %v", *path, err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		log.Fatalf("parse %s: %v", *path, err)
	}

	points := make([]domain.HazardPoint, 0, len(seed.Cameras))
	for _, p := range seed.Cameras {
		if p.ID == 0 || !geo.IsValidLatLon(p.Lat, p.Lon) {
			slog.Warn("skipping camera", "id", p.ID, "lat", p.Lat, "lon", p.Lon)
			continue
		}
		points = append(points, p)
	}

	db, err := config.NewStore(cfg)
	if err != nil {
		log.Fatalf("%s: %v", cfg.Store.Driver, err)
	}
	defer func() { _ = db.Close() }()

	store, err := core.NewHazardStore(cfg.Store.Driver, db)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := store.Upsert(ctx, points); err != nil {
		log.Fatalf("upsert: %v", err)
	}

	total, err := store.Count(ctx)
	if err != nil {
		log.Fatalf("count: %v", err)
	}
	slog.Info("seeded cameras", "loaded", len(points), "skipped", len(seed.Cameras)-len(points), "total", total)
}
