// Package testdb opens an in-memory SQLite database shared by sqlx and gorm,
// with every table migrated from the datamodels. Used by repository and
// router tests.
package testdb

import (
	"fmt"

	departmentDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/department"
	reportDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/report"
	sessionDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/session"
	userDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/user"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	SQLX *sqlx.DB
	Gorm *gorm.DB
}

func Open() (*DB, error) {
	sqlxDB, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// every connection to :memory: is a separate database
	sqlxDB.SetMaxOpenConns(1)

	gormDB, err := gorm.Open(&sqlite.Dialector{Conn: sqlxDB.DB}, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	if err := gormDB.AutoMigrate(
		&departmentDatamodel.Department{},
		&userDatamodel.User{},
		&sessionDatamodel.Session{},
		&reportDatamodel.Report{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &DB{SQLX: sqlxDB, Gorm: gormDB}, nil
}

func (d *DB) Close() error {
	return d.SQLX.Close()
}
