package database

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"seltext/internal/models"
)

const (
	defaultDBName = "seltext.db"
	defaultDBDir  = ".config/seltext"
)

type DB struct {
	*gorm.DB
}

func GetDefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	dbDir := filepath.Join(homeDir, defaultDBDir)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create database directory")
	}

	return filepath.Join(dbDir, defaultDBName), nil
}

// Connect opens the journal database, creating the parent directory of a
// custom path when needed
func Connect(dbPath string) (*DB, error) {
	if dbPath == "" {
		var err error
		dbPath, err = GetDefaultDBPath()
		if err != nil {
			return nil, err
		}
	} else if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, errors.Wrap(err, "failed to create database directory")
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	return &DB{db}, nil
}

func (db *DB) Initialize() error {
	err := db.AutoMigrate(&models.ExtractionEvent{}, &models.ErrorLog{})
	if err != nil {
		return errors.Wrap(err, "failed to initialize database schema")
	}

	return nil
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get underlying sql.DB")
	}
	return sqlDB.Close()
}

// Open connects and migrates in one step
func Open(dbPath string) (*DB, error) {
	db, err := Connect(dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
