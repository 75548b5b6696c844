package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nandanugg/speedcam/module/core/domain"
	"github.com/nandanugg/speedcam/module/core/geo"
	"github.com/nandanugg/speedcam/module/core/internal/repository/database"
)

var _ database.HazardRepository = (*HazardRepo)(nil)

type HazardRepo struct {
	db *sql.DB
}

func NewHazardRepo(db *sql.DB) *HazardRepo {
	return &HazardRepo{db: db}
}

func (r *HazardRepo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS speed_cameras (
		id INTEGER PRIMARY KEY,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		speed_limit INTEGER NOT NULL DEFAULT 0,
		label TEXT NOT NULL DEFAULT '',
		direction TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT ''
	)`)
	if err != nil {
		return fmt.Errorf("create speed_cameras: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS speed_cameras_lat_lon ON speed_cameras (latitude, longitude)`)
	if err != nil {
		return fmt.Errorf("create lat/lon index: %w", err)
	}
	return nil
}

func (r *HazardRepo) QueryNearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.HazardPoint, error) {
	minLat, maxLat, minLon, maxLon := geo.BoundingBox(lat, lon, radiusKm)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+database.HazardColumns+` FROM speed_cameras WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?`,
		minLat, maxLat, minLon, maxLon,
	)
	if err != nil {
		return nil, err
	}
	return database.ScanHazards(rows)
}

func (r *HazardRepo) Upsert(ctx context.Context, points []domain.HazardPoint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range points {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO speed_cameras (`+database.HazardColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET latitude = excluded.latitude, longitude = excluded.longitude,
			speed_limit = excluded.speed_limit, label = excluded.label, direction = excluded.direction,
			city = excluded.city, region = excluded.region`,
			p.ID, p.Lat, p.Lon, p.SpeedLimit, p.Label, p.Direction, p.City, p.Region,
		)
		if err != nil {
			return fmt.Errorf("upsert hazard %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (r *HazardRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM speed_cameras`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *HazardRepo) CountByLimit(ctx context.Context) ([]domain.LimitCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT speed_limit, COUNT(*) FROM speed_cameras GROUP BY speed_limit ORDER BY speed_limit`,
	)
	if err != nil {
		return nil, err
	}
	return database.ScanLimitCounts(rows)
}
