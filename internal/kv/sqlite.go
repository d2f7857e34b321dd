package kv

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// item is the single table backing the SQLite store.
type item struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value;not null"`
}

func (item) TableName() string { return "kv_items" }

// SQLite stores items in one table through GORM.
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database at dsn and migrates the
// items table. Use ":memory:" for a throwaway database.
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", dsn, err)
	}

	// A single connection keeps ":memory:" databases alive and shared and
	// serializes writers the way SQLite wants anyway.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&item{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate kv_items: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) GetItem(ctx context.Context, key string) (string, bool, error) {
	var it item
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&it).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return it.Value, true, nil
}

// SetItem upserts in one statement, which SQLite applies atomically.
func (s *SQLite) SetItem(ctx context.Context, key, value string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&item{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) RemoveItem(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&item{}).Error; err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.WithContext(ctx).Model(&item{}).Order("key").Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
