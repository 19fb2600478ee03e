package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultDBFile = "beatscan.sqlite3"

var ErrNotFound = errors.New("storage: analysis not found")

// Analysis is one completed tempo-analysis run. The detection result
// itself is immutable; this table is only a history of what the service
// has produced.
type Analysis struct {
	ID              string `gorm:"primaryKey;type:varchar(36)"`
	Filename        string `gorm:"index:idx_filename"`
	BPM             float64
	Confidence      float64
	SampleRate      int
	DurationSeconds float64
	CreatedAt       time.Time
}

// DBClient wraps the gorm handle and the underlying sql.DB pool.
type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// NewDBClient opens (or creates) the SQLite database at path and migrates
// the schema.
func NewDBClient(dbPath string) (*DBClient, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Analysis{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

// Close releases the connection pool.
func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// RecordAnalysis stores one completed run and returns its generated ID.
func (c *DBClient) RecordAnalysis(filename string, bpm, confidence float64, sampleRate int, durationSeconds float64) (string, error) {
	if c == nil || c.DB == nil {
		return "", errors.New("storage: db client is nil")
	}

	rec := Analysis{
		ID:              uuid.NewString(),
		Filename:        filename,
		BPM:             bpm,
		Confidence:      confidence,
		SampleRate:      sampleRate,
		DurationSeconds: durationSeconds,
	}
	if err := c.DB.Create(&rec).Error; err != nil {
		return "", fmt.Errorf("recording analysis: %w", err)
	}
	return rec.ID, nil
}

// GetAnalysisByID returns one stored run or ErrNotFound.
func (c *DBClient) GetAnalysisByID(id string) (*Analysis, error) {
	var rec Analysis
	err := c.DB.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching analysis %s: %w", id, err)
	}
	return &rec, nil
}

// ListAnalyses returns stored runs, newest first.
func (c *DBClient) ListAnalyses() ([]Analysis, error) {
	var recs []Analysis
	if err := c.DB.Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	return recs, nil
}

// DeleteAnalysisByID removes one stored run; deleting a missing ID returns
// ErrNotFound.
func (c *DBClient) DeleteAnalysisByID(id string) error {
	res := c.DB.Delete(&Analysis{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting analysis %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAnalyses returns the number of stored runs.
func (c *DBClient) CountAnalyses() (int64, error) {
	var count int64
	if err := c.DB.Model(&Analysis{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting analyses: %w", err)
	}
	return count, nil
}
