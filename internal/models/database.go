package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Database wraps the gorm sqlite connection
type Database struct {
	db *gorm.DB
}

// NewDatabase opens (and migrates) the sqlite database at path
func NewDatabase(path string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&Setting{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetSetting returns the stored value, or found=false when the key was never written
func (db *Database) GetSetting(ctx context.Context, sessionID, name string) (string, bool, error) {
	var setting Setting
	err := db.db.WithContext(ctx).Where("session_id = ? AND name = ?", sessionID, name).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return setting.Value, true, nil
}

// PutSetting inserts or replaces a value
func (db *Database) PutSetting(ctx context.Context, sessionID, name, value string) error {
	setting := Setting{SessionID: sessionID, Name: name, Value: value}
	return db.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// DeleteSetting removes a value; deleting a missing key is not an error
func (db *Database) DeleteSetting(ctx context.Context, sessionID, name string) error {
	return db.db.WithContext(ctx).Where("session_id = ? AND name = ?", sessionID, name).Delete(&Setting{}).Error
}

// GetSessionSettings returns all settings of a session
func (db *Database) GetSessionSettings(ctx context.Context, sessionID string) ([]Setting, error) {
	var settings []Setting
	err := db.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("name").Find(&settings).Error
	return settings, err
}
