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

package romdb

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ZaparooProject/romfile/pkg/database"
	"github.com/ZaparooProject/romfile/pkg/romfile"
	testsqlmock "github.com/ZaparooProject/romfile/pkg/testing/sqlmock"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlUpsertRomfiles_RollsBackOnError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	row := database.NewRomfile("nes", "/roms/Game (USA).nes", romfile.Parse("Game (USA).nes"))

	mock.ExpectBegin()
	mock.ExpectPrepare(`insert into Romfiles`).
		ExpectExec().
		WithArgs(
			"scan-1", "nes", "/roms/Game (USA).nes", "Game (USA).nes", "Game", "Game",
			"game", "US", "", "nointro",
		).
		WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	err = sqlUpsertRomfiles(context.Background(), db, "scan-1", []database.Romfile{row})
	require.Error(t, err)
	require.ErrorIs(t, err, sqlmock.ErrCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlUpsertRomfiles_Commits(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := []database.Romfile{
		database.NewRomfile("nes", "/a/Game (USA).nes", romfile.Parse("Game (USA).nes")),
		database.NewRomfile("nes", "/b/Game (U).nes", romfile.Parse("Game (U).nes")),
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`insert into Romfiles.*on conflict\(Platform, Path\) do update`)
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err = sqlUpsertRomfiles(context.Background(), db, "scan-1", rows)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlBeginScan_Error(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	clock := clockwork.NewFakeClockAt(time.Unix(1700000000, 0))
	mock.ExpectExec(`insert into Scans`).
		WithArgs(sqlmock.AnyArg(), "/roms", "nes", int64(1700000000)).
		WillReturnError(sqlmock.ErrCancelled)

	_, err = sqlBeginScan(context.Background(), db, clock, "/roms", "nes")
	require.ErrorIs(t, err, sqlmock.ErrCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlFinishScan_NotFound(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	clock := clockwork.NewFakeClockAt(time.Unix(1700000000, 0))
	mock.ExpectExec(`update Scans set FinishedAt`).
		WithArgs(int64(1700000000), 3, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = sqlFinishScan(context.Background(), db, clock, "missing", 3)
	require.ErrorIs(t, err, ErrScanNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetByFilename_InvalidConvention(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{
		"DBID", "ScanID", "Platform", "Path", "Filename", "Title", "SortTitle", "Slug",
		"RegionCode", "Year", "NamingConvention",
	}).AddRow(1, "scan-1", "nes", "/a.nes", "a.nes", "a", "a", "a", "ZZ", "", "mame")
	mock.ExpectQuery(`select .* from Romfiles\s+where Filename = \?`).
		WithArgs("a.nes").
		WillReturnRows(rows)

	_, err = sqlGetByFilename(context.Background(), db, "a.nes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid stored convention")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlListScans_QueryError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`select ScanID`).WillReturnError(sqlmock.ErrCancelled)

	scans, err := sqlListScans(context.Background(), db)
	require.ErrorIs(t, err, sqlmock.ErrCancelled)
	assert.Empty(t, scans)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlFuzzySearch_SlugQueryError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`select distinct Slug from Romfiles`).WillReturnError(sqlmock.ErrCancelled)

	_, err = sqlFuzzySearch(context.Background(), db, "zelda", 5)
	require.ErrorIs(t, err, sqlmock.ErrCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
