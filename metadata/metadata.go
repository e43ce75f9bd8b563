// Package metadata reads anthems and their verses from the hymnal database.
// And serves them over HTTP for the preview server.
package metadata

import (
	"errors"
	"fmt"

	"harpadeck/logging"
	"harpadeck/model"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite" // pure go sqlite driver
	"gorm.io/gorm"
)

var logger = logging.ZoneLogger("harpadeck/metadata")

// ErrAnthemNotFound is returned when no anthem has the requested id.
var ErrAnthemNotFound = errors.New("anthem not found")

// Store is the hymnal database. It holds a single connection that is
// reused by every query.
type Store struct {
	db *gorm.DB
}

// Start opens the store and, if router is not nil, registers its routes.
func Start(dsn string, router gin.IRouter) (*Store, error) {
	s, err := Open(dsn)
	if err != nil {
		return nil, err
	}

	if router != nil {
		s.RegisterRoutes(router)
	}
	return s, nil
}

// Open connects to the sqlite database at dsn.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logging.Logger4Gorm,
	})
	if err != nil {
		return nil, fmt.Errorf("Open: gorm.Open failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("Open: DB failed: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	logger.WithField("dsn", dsn).Debug("Open: connected")

	return &Store{db: db}, nil
}

// Migrate creates the anthems and verses tables if they do not exist.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&model.Anthem{}, &model.Verse{}); err != nil {
		return fmt.Errorf("Migrate: AutoMigrate failed: %w", err)
	}
	return nil
}

// DB exposes the underlying gorm handle. Used to seed fixtures.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
