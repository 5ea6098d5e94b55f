// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/blinklabs-io/sealmeet-indexer/database/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Config is the database configuration
type Config struct {
	// ConnectionString selects the backing store. A postgres:// or
	// postgresql:// URL opens postgres; anything else is treated as a
	// sqlite file path. Empty opens an in-memory sqlite database,
	// useful for testing.
	ConnectionString string
	Logger           *slog.Logger
}

// Database wraps the gorm handle for the indexer's relational projection.
// It exclusively owns write access to the store.
type Database struct {
	db     *gorm.DB
	logger *slog.Logger
}

// New opens the store described by cfg and applies schema migrations
func New(cfg *Config) (*Database, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	gormCfg := &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	}
	var gormDb *gorm.DB
	var err error
	connStr := cfg.ConnectionString
	switch {
	case strings.HasPrefix(connStr, "postgres://"),
		strings.HasPrefix(connStr, "postgresql://"):
		gormDb, err = gorm.Open(postgres.Open(connStr), gormCfg)
	case connStr == "":
		// cache=shared allows multiple connections to share the same in-memory database
		gormDb, err = gorm.Open(
			sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"),
			gormCfg,
		)
	default:
		// WAL journal mode, disable sync on write, enforce foreign keys for cascades
		connOpts := "_pragma=journal_mode(WAL)&_pragma=sync(OFF)&_pragma=foreign_keys(1)"
		gormDb, err = gorm.Open(
			sqlite.Open(fmt.Sprintf("file:%s?%s", connStr, connOpts)),
			gormCfg,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db := &Database{
		db:     gormDb,
		logger: logger,
	}
	// Configure tracing for GORM
	if err := db.db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}
	// Create table schemas
	for _, model := range models.MigrateModels {
		db.logger.Debug(
			fmt.Sprintf("creating table: %#v", model),
			"component", "database",
		)
		if err := db.db.AutoMigrate(model); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// DB returns the underlying gorm handle
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Transaction starts a new database transaction
func (d *Database) Transaction() *gorm.DB {
	return d.db.Begin()
}

// Close closes the underlying database connection
func (d *Database) Close() error {
	sqlDb, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}
