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
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZaparooProject/romfile/pkg/database"
	"github.com/ZaparooProject/romfile/pkg/database/matcher"
	"github.com/ZaparooProject/romfile/pkg/database/slugs"
	"github.com/ZaparooProject/romfile/pkg/romfile"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// ErrScanNotFound is returned when finishing a scan that was never begun.
var ErrScanNotFound = errors.New("scan not found")

// fuzzyMaxLengthDiff bounds how much longer or shorter than the query a
// candidate slug may be before it is scored at all.
const fuzzyMaxLengthDiff = 5

const romfileColumns = `
	DBID, ScanID, Platform, Path, Filename, Title, SortTitle, Slug,
	RegionCode, Year, NamingConvention`

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run rom database migrations: %w", err)
	}
	return nil
}

func sqlAllocate(db *sql.DB) error {
	return sqlMigrateUp(db)
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	delete from Romfiles;
	delete from Scans;
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to truncate database: %w", err)
	}
	return nil
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

func sqlBeginScan(
	ctx context.Context,
	db *sql.DB,
	clock clockwork.Clock,
	root, platform string,
) (database.ScanRecord, error) {
	rec := database.ScanRecord{
		ScanID:    uuid.New().String(),
		Root:      root,
		Platform:  platform,
		StartedAt: time.Unix(clock.Now().Unix(), 0),
	}

	_, err := db.ExecContext(ctx, `
		insert into Scans(
			ScanID, Root, Platform, StartedAt, Files
		) values (?, ?, ?, ?, 0);
	`, rec.ScanID, rec.Root, rec.Platform, rec.StartedAt.Unix())
	if err != nil {
		return database.ScanRecord{}, fmt.Errorf("failed to insert scan: %w", err)
	}

	log.Debug().
		Str("scan_id", rec.ScanID).
		Str("root", root).
		Str("platform", platform).
		Msg("scan started")
	return rec, nil
}

func sqlFinishScan(ctx context.Context, db *sql.DB, clock clockwork.Clock, scanID string, files int) error {
	result, err := db.ExecContext(ctx, `
		update Scans set FinishedAt = ?, Files = ? where ScanID = ?;
	`, clock.Now().Unix(), files, scanID)
	if err != nil {
		return fmt.Errorf("failed to update scan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrScanNotFound, scanID)
	}
	return nil
}

func sqlListScans(ctx context.Context, db *sql.DB) ([]database.ScanRecord, error) {
	list := make([]database.ScanRecord, 0)

	rows, err := db.QueryContext(ctx, `
		select ScanID, Root, Platform, StartedAt, FinishedAt, Files
		from Scans
		order by StartedAt desc, DBID desc;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to query scans: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	for rows.Next() {
		var rec database.ScanRecord
		var started int64
		var finished sql.NullInt64
		scanErr := rows.Scan(
			&rec.ScanID,
			&rec.Root,
			&rec.Platform,
			&started,
			&finished,
			&rec.Files,
		)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan scans row: %w", scanErr)
		}
		rec.StartedAt = time.Unix(started, 0)
		if finished.Valid {
			rec.FinishedAt = time.Unix(finished.Int64, 0)
		}
		list = append(list, rec)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating scans rows: %w", err)
	}
	return list, nil
}

func sqlUpsertRomfiles(ctx context.Context, db *sql.DB, scanID string, rows []database.Romfile) (err error) {
	if len(rows) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Warn().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		insert into Romfiles(
			ScanID, Platform, Path, Filename, Title, SortTitle, Slug,
			RegionCode, Year, NamingConvention
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		on conflict(Platform, Path) do update set
			ScanID = excluded.ScanID,
			Filename = excluded.Filename,
			Title = excluded.Title,
			SortTitle = excluded.SortTitle,
			Slug = excluded.Slug,
			RegionCode = excluded.RegionCode,
			Year = excluded.Year,
			NamingConvention = excluded.NamingConvention;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare romfile upsert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	for i := range rows {
		row := &rows[i]
		_, err = stmt.ExecContext(ctx,
			scanID,
			row.Platform,
			row.Path,
			row.Filename,
			row.Title,
			row.SortTitle,
			row.Slug,
			row.RegionCode,
			row.Year,
			row.NamingConvention.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert romfile %s: %w", row.Path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit romfiles: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRomfile(r rowScanner) (database.Romfile, error) {
	var row database.Romfile
	var convention string
	err := r.Scan(
		&row.DBID,
		&row.ScanID,
		&row.Platform,
		&row.Path,
		&row.Filename,
		&row.Title,
		&row.SortTitle,
		&row.Slug,
		&row.RegionCode,
		&row.Year,
		&convention,
	)
	if err != nil {
		return row, fmt.Errorf("failed to scan romfile row: %w", err)
	}
	row.NamingConvention, err = romfile.ParseNamingConvention(convention)
	if err != nil {
		return row, fmt.Errorf("invalid stored convention for %s: %w", row.Path, err)
	}
	return row, nil
}

func queryRomfiles(ctx context.Context, db *sql.DB, query string, args ...any) ([]database.Romfile, error) {
	list := make([]database.Romfile, 0)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return list, fmt.Errorf("failed to query romfiles: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	for rows.Next() {
		row, scanErr := scanRomfile(rows)
		if scanErr != nil {
			return list, scanErr
		}
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating romfile rows: %w", err)
	}
	return list, nil
}

func sqlGetRomfile(ctx context.Context, db *sql.DB, platform, path string) (database.Romfile, bool, error) {
	row, err := scanRomfile(db.QueryRowContext(ctx, `
		select `+romfileColumns+`
		from Romfiles
		where Platform = ? and Path = ?;
	`, platform, path))
	if errors.Is(err, sql.ErrNoRows) {
		return database.Romfile{}, false, nil
	} else if err != nil {
		return database.Romfile{}, false, err
	}
	return row, true, nil
}

func sqlListRomfiles(ctx context.Context, db *sql.DB, platform string) ([]database.Romfile, error) {
	return queryRomfiles(ctx, db, `
		select `+romfileColumns+`
		from Romfiles
		where ? = '' or Platform = ?
		order by Platform, Path;
	`, platform, platform)
}

func sqlGetByFilename(ctx context.Context, db *sql.DB, filename string) ([]database.Romfile, error) {
	return queryRomfiles(ctx, db, `
		select `+romfileColumns+`
		from Romfiles
		where Filename = ?
		order by Platform, Path;
	`, filename)
}

func sqlSearchTitle(ctx context.Context, db *sql.DB, query string) ([]database.Romfile, error) {
	slug := slugs.Slugify(query)
	if slug == "" {
		return []database.Romfile{}, nil
	}
	// slugs only hold letters and digits so no LIKE escaping is needed
	return queryRomfiles(ctx, db, `
		select `+romfileColumns+`
		from Romfiles
		where Slug like ?
		order by SortTitle, Platform, Path;
	`, "%"+slug+"%")
}

func sqlListByRegion(ctx context.Context, db *sql.DB, code string) ([]database.Romfile, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return []database.Romfile{}, nil
	}
	return queryRomfiles(ctx, db, `
		select `+romfileColumns+`
		from Romfiles
		where instr('-' || RegionCode || '-', ?) > 0
		order by SortTitle, Platform, Path;
	`, "-"+code+"-")
}

func sqlCountByConvention(ctx context.Context, db *sql.DB) ([]database.ConventionCount, error) {
	list := make([]database.ConventionCount, 0, 4)

	rows, err := db.QueryContext(ctx, `
		select NamingConvention, count(*)
		from Romfiles
		group by NamingConvention
		order by NamingConvention;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to count conventions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	for rows.Next() {
		var name string
		var count database.ConventionCount
		if scanErr := rows.Scan(&name, &count.Count); scanErr != nil {
			return list, fmt.Errorf("failed to scan convention count: %w", scanErr)
		}
		count.NamingConvention, err = romfile.ParseNamingConvention(name)
		if err != nil {
			return list, fmt.Errorf("invalid stored convention: %w", err)
		}
		list = append(list, count)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating convention counts: %w", err)
	}
	return list, nil
}

func sqlAllSlugs(ctx context.Context, db *sql.DB) ([]string, error) {
	list := make([]string, 0)

	rows, err := db.QueryContext(ctx, `select distinct Slug from Romfiles where Slug != '';`)
	if err != nil {
		return list, fmt.Errorf("failed to query slugs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	for rows.Next() {
		var slug string
		if scanErr := rows.Scan(&slug); scanErr != nil {
			return list, fmt.Errorf("failed to scan slug: %w", scanErr)
		}
		list = append(list, slug)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating slugs: %w", err)
	}
	return list, nil
}

func sqlFuzzySearch(ctx context.Context, db *sql.DB, query string, limit int) ([]database.Romfile, error) {
	slug := slugs.Slugify(query)
	if slug == "" {
		return []database.Romfile{}, nil
	}

	candidates, err := sqlAllSlugs(ctx, db)
	if err != nil {
		return nil, err
	}

	matches := matcher.FindFuzzyMatches(slug, candidates, fuzzyMaxLengthDiff, DefaultFuzzyThreshold)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]database.Romfile, 0, len(matches))
	for _, m := range matches {
		rows, err := queryRomfiles(ctx, db, `
			select `+romfileColumns+`
			from Romfiles
			where Slug = ?
			order by SortTitle, Platform, Path;
		`, m.Slug)
		if err != nil {
			return nil, err
		}
		results = append(results, rows...)
	}
	return results, nil
}
