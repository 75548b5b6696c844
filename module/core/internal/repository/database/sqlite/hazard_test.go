package sqlite

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/nandanugg/speedcam/module/core/domain"
)

var hazardCols = []string{"id", "latitude", "longitude", "speed_limit", "label", "direction", "city", "region"}

func TestQueryNearby_BoundingBoxArgs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows(hazardCols).
		AddRow(int64(3), 25.0330, 121.5654, 60, "Xinyi Rd", "north", "", "")

	mock.ExpectQuery(`SELECT (.+) FROM speed_cameras WHERE latitude BETWEEN`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	repo := NewHazardRepo(db)
	results, err := repo.QueryNearby(context.Background(), 25.0330, 121.5654, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ID != 3 {
		t.Fatalf("unexpected results: %+v", results)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestQueryNearby_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT (.+) FROM speed_cameras`).
		WillReturnError(sqlmock.ErrCancelled)

	repo := NewHazardRepo(db)
	if _, err := repo.QueryNearby(context.Background(), 25.0, 121.5, 2.0); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpsert_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO speed_cameras`).
		WithArgs(int64(1), 25.0, 121.5, 50, "A", "", "", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO speed_cameras`).
		WithArgs(int64(2), 25.1, 121.6, 70, "B", "", "", "").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	repo := NewHazardRepo(db)
	err = repo.Upsert(context.Background(), []domain.HazardPoint{
		{ID: 1, Lat: 25.0, Lon: 121.5, SpeedLimit: 50, Label: "A"},
		{ID: 2, Lat: 25.1, Lon: 121.6, SpeedLimit: 70, Label: "B"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCount_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM speed_cameras`).
		WillReturnError(sqlmock.ErrCancelled)

	repo := NewHazardRepo(db)
	if _, err := repo.Count(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
