// Zaparoo Romfile
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Romfile.
//
// Zaparoo Romfile is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Romfile is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Romfile.  If not, see <http://www.gnu.org/licenses/>.

// Package romdb is the SQLite catalogue of parsed ROM filenames.
package romdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/romfile/pkg/database"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNullSQL = errors.New("RomDB is not connected")

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

// DefaultFuzzyThreshold is the minimum Jaro-Winkler similarity FuzzySearch
// accepts.
const DefaultFuzzyThreshold float32 = 0.85

type RomDB struct {
	sql   *sql.DB
	ctx   context.Context
	clock clockwork.Clock
	path  string
}

// Open opens the catalogue at path, creating the file and its schema if it
// does not exist yet.
func Open(ctx context.Context, path string) (*RomDB, error) {
	db := &RomDB{ctx: ctx, clock: clockwork.NewRealClock(), path: path}

	exists := true
	if _, err := os.Stat(path); err != nil {
		exists = false
		if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o750); mkdirErr != nil {
			return nil, fmt.Errorf("failed to create directory for database: %w", mkdirErr)
		}
	}

	sqlInstance, err := sql.Open("sqlite3", path+sqliteConnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance

	if !exists {
		if err := db.Allocate(); err != nil {
			_ = sqlInstance.Close()
			return nil, err
		}
		return db, nil
	}
	if err := db.MigrateUp(); err != nil {
		_ = sqlInstance.Close()
		return nil, err
	}
	return db, nil
}

// Path returns the file the catalogue was opened from.
func (db *RomDB) Path() string {
	return db.path
}

func (db *RomDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *RomDB) Allocate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAllocate(db.sql)
}

func (db *RomDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *RomDB) Truncate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlTruncate(db.ctx, db.sql)
}

func (db *RomDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *RomDB) Close() error {
	if db.sql == nil {
		return nil
	}
	if err := db.sql.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting injects a sql.DB and clock and allocates the schema. Only
// for use in tests.
func (db *RomDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB, clock clockwork.Clock) error {
	db.sql = sqlDB
	db.ctx = ctx
	db.clock = clock
	return db.Allocate()
}

// BeginScan records the start of a scan of root and returns its record. The
// scan ID is stamped on every row written with UpsertRomfiles.
func (db *RomDB) BeginScan(root, platform string) (database.ScanRecord, error) {
	if db.sql == nil {
		return database.ScanRecord{}, ErrNullSQL
	}
	return sqlBeginScan(db.ctx, db.sql, db.clock, root, platform)
}

// FinishScan marks a scan complete with the number of files it found.
func (db *RomDB) FinishScan(scanID string, files int) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlFinishScan(db.ctx, db.sql, db.clock, scanID, files)
}

func (db *RomDB) ListScans() ([]database.ScanRecord, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListScans(db.ctx, db.sql)
}

// UpsertRomfiles writes rows in a single transaction. A row for an already
// catalogued platform and path replaces the stored one.
func (db *RomDB) UpsertRomfiles(scanID string, rows []database.Romfile) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpsertRomfiles(db.ctx, db.sql, scanID, rows)
}

// GetRomfile returns the row for a platform and path. The second return is
// false when nothing is catalogued there.
func (db *RomDB) GetRomfile(platform, path string) (database.Romfile, bool, error) {
	if db.sql == nil {
		return database.Romfile{}, false, ErrNullSQL
	}
	return sqlGetRomfile(db.ctx, db.sql, platform, path)
}

// ListRomfiles returns every row of platform, or every row when platform is
// empty, ordered by platform and path.
func (db *RomDB) ListRomfiles(platform string) ([]database.Romfile, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListRomfiles(db.ctx, db.sql, platform)
}

// GetByFilename returns every row whose base filename equals filename.
func (db *RomDB) GetByFilename(filename string) ([]database.Romfile, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlGetByFilename(db.ctx, db.sql, filename)
}

// SearchTitle returns rows whose slug contains the slug of query, ordered by
// sort title.
func (db *RomDB) SearchTitle(query string) ([]database.Romfile, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlSearchTitle(db.ctx, db.sql, query)
}

// ListByRegion returns rows where code is one of the region components.
func (db *RomDB) ListByRegion(code string) ([]database.Romfile, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListByRegion(db.ctx, db.sql, code)
}

func (db *RomDB) CountByConvention() ([]database.ConventionCount, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlCountByConvention(db.ctx, db.sql)
}

// FuzzySearch returns rows whose slug is similar to the slug of query, best
// match first, from at most limit distinct slugs.
func (db *RomDB) FuzzySearch(query string, limit int) ([]database.Romfile, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlFuzzySearch(db.ctx, db.sql, query, limit)
}
