package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"screentime-metrics-service/internal/model"
)

// Open opens the activity log for one read pass. The source is external and
// never migrated or mutated; absence and unreadability are reported as
// distinct failures so callers can surface the right remediation.
func Open(path string) (*gorm.DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrSourceNotFound, path)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", model.ErrSourcePermission, path)
		}
		return nil, fmt.Errorf("stat activity log: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", model.ErrSourcePermission, path)
		}
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	_ = f.Close()

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, &model.QueryError{Err: err}
	}

	return gdb, nil
}

// Close releases the underlying connection of a gorm handle.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
