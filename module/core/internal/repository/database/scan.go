package database

import (
	"database/sql"

	"github.com/nandanugg/speedcam/module/core/domain"
)

const HazardColumns = `id, latitude, longitude, speed_limit, label, direction, city, region`

func ScanHazards(rows *sql.Rows) ([]domain.HazardPoint, error) {
	defer func() { _ = rows.Close() }()

	var results []domain.HazardPoint
	for rows.Next() {
		var h domain.HazardPoint
		if err := rows.Scan(&h.ID, &h.Lat, &h.Lon, &h.SpeedLimit, &h.Label, &h.Direction, &h.City, &h.Region); err != nil {
			return nil, err
		}
		results = append(results, h)
	}
	return results, rows.Err()
}

func ScanLimitCounts(rows *sql.Rows) ([]domain.LimitCount, error) {
	defer func() { _ = rows.Close() }()

	var results []domain.LimitCount
	for rows.Next() {
		var lc domain.LimitCount
		if err := rows.Scan(&lc.SpeedLimit, &lc.Count); err != nil {
			return nil, err
		}
		results = append(results, lc)
	}
	return results, rows.Err()
}
