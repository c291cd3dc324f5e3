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

// Package cli implements the romfile command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/romfile/pkg/config"
	"github.com/ZaparooProject/romfile/pkg/database"
	"github.com/ZaparooProject/romfile/pkg/database/romdb"
	"github.com/ZaparooProject/romfile/pkg/helpers"
	"github.com/ZaparooProject/romfile/pkg/romfile"
	"github.com/ZaparooProject/romfile/pkg/scanner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// AppVersion is set at build time.
var AppVersion = "DEVELOPMENT"

// ErrNoAction is returned by Run when no action flag was given.
var ErrNoAction = errors.New("no action given")

type Flags struct {
	set            *flag.FlagSet
	Parse          *string
	Scan           *string
	Platform       *string
	Search         *string
	Fuzzy          *string
	Region         *string
	ExportCSV      *string
	ExportGameList *string
	Regions        *string
	Limit          *int
	Index          *bool
	JSON           *bool
	Debug          *bool
	Version        *bool
}

// SetupFlags defines the romfile flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		set: fs,
		Parse: fs.String(
			"parse",
			"",
			"parse a filename and print the result, extra arguments are parsed too",
		),
		Scan: fs.String(
			"scan",
			"",
			"scan a folder and print every parsed file",
		),
		Platform: fs.String(
			"platform",
			"",
			"platform ID for -scan, or to restrict exports",
		),
		Index: fs.Bool(
			"index",
			false,
			"store scan results in the catalogue, scans all configured platforms without -scan",
		),
		Search: fs.String(
			"search",
			"",
			"search the catalogue by title",
		),
		Fuzzy: fs.String(
			"fuzzy",
			"",
			"fuzzy search the catalogue by title",
		),
		Limit: fs.Int(
			"limit",
			10,
			"maximum distinct titles returned by -fuzzy",
		),
		Region: fs.String(
			"region",
			"",
			"list catalogued files for a region code",
		),
		ExportCSV: fs.String(
			"export-csv",
			"",
			"write the catalogue to a CSV file",
		),
		ExportGameList: fs.String(
			"export-gamelist",
			"",
			"write or update an EmulationStation gamelist.xml",
		),
		Regions: fs.String(
			"regions",
			"",
			"list the region tokens of a naming convention (goodtools, nointro, tosec)",
		),
		JSON: fs.Bool(
			"json",
			false,
			"print results as JSON",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

// Args returns the positional arguments left after flag parsing.
func (f *Flags) Args() []string {
	return f.set.Args()
}

// Setup loads the config and starts logging.
//
//nolint:gocritic // config struct copied for immutability
func Setup(fs afero.Fs, defaults config.Values, writers []io.Writer) (*config.Instance, error) {
	cfg, err := config.NewConfig(fs, config.ConfigDir(), defaults)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if err := helpers.InitLogging(config.LogDir(), writers); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg.SetDebugLogging(cfg.DebugLogging())
	return cfg, nil
}

// Run performs the first action selected by the flags and writes its output
// to out.
func (f *Flags) Run(ctx context.Context, cfg *config.Instance, out io.Writer) error {
	if *f.Debug {
		cfg.SetDebugLogging(true)
	}
	p := newPrinter(out, *f.JSON)

	switch {
	case *f.Version:
		_, _ = fmt.Fprintf(out, "romfile v%s\n", AppVersion)
		return nil
	case *f.Regions != "":
		return runRegions(p, *f.Regions)
	case *f.Parse != "" || (len(f.Args()) > 0 && *f.Scan == ""):
		names := f.Args()
		if *f.Parse != "" {
			names = append([]string{*f.Parse}, names...)
		}
		return runParse(p, names)
	case *f.Scan != "" || *f.Index:
		return f.runScan(ctx, cfg, p)
	case *f.Search != "", *f.Fuzzy != "", *f.Region != "":
		return f.runQuery(ctx, cfg, p)
	case *f.ExportCSV != "", *f.ExportGameList != "":
		return f.runExport(ctx, cfg)
	default:
		return ErrNoAction
	}
}

func runRegions(p *printer, name string) error {
	conv, err := romfile.ParseNamingConvention(name)
	if err != nil {
		return fmt.Errorf("invalid convention: %w", err)
	}

	tokens := romfile.RegionTokens(conv)
	regions := make([]regionToken, 0, len(tokens))
	for _, token := range tokens {
		code, _, _ := romfile.LookupRegion(token)
		regions = append(regions, regionToken{Token: token, Code: code})
	}
	return p.regions(regions)
}

func runParse(p *printer, names []string) error {
	results := make([]record, 0, len(names))
	for _, name := range names {
		results = append(results, record{StructuredFilename: romfile.Parse(name)})
	}
	return p.records(results, false)
}

func (f *Flags) scanOptions(cfg *config.Instance) scanner.Options {
	settings := cfg.ScanSettings()
	opts := scanner.Options{
		Platform:       *f.Platform,
		Extensions:     settings.Extensions,
		Workers:        settings.Workers,
		Archives:       settings.Archives,
		FollowSymlinks: settings.FollowSymlinks,
	}
	if p, ok := cfg.LookupPlatform(*f.Platform); ok && len(p.Extensions) > 0 {
		opts.Extensions = p.Extensions
	}
	return opts
}

func (f *Flags) runScan(ctx context.Context, cfg *config.Instance, p *printer) error {
	var entries []scanner.Entry
	var err error
	root := *f.Scan
	if root != "" {
		entries, err = scanner.Scan(ctx, root, f.scanOptions(cfg))
	} else {
		root = "(configured platforms)"
		entries, err = scanner.ScanPlatforms(ctx, cfg)
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if !*f.Index {
		results := make([]record, 0, len(entries))
		for _, e := range entries {
			results = append(results, record{
				Platform:           e.Platform,
				Path:               e.Path,
				StructuredFilename: e.StructuredFilename,
			})
		}
		return p.records(results, true)
	}

	db, err := romdb.Open(ctx, cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("error opening catalogue: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing catalogue")
		}
	}()

	scan, err := db.BeginScan(root, *f.Platform)
	if err != nil {
		return fmt.Errorf("error starting scan: %w", err)
	}

	rows := make([]database.Romfile, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, database.NewRomfile(e.Platform, e.Path, e.StructuredFilename))
	}
	if err := db.UpsertRomfiles(scan.ScanID, rows); err != nil {
		return fmt.Errorf("error storing scan: %w", err)
	}
	if err := db.FinishScan(scan.ScanID, len(rows)); err != nil {
		return fmt.Errorf("error finishing scan: %w", err)
	}

	log.Info().Str("scan_id", scan.ScanID).Int("files", len(rows)).Msg("indexed scan")
	_, _ = fmt.Fprintf(p.out, "indexed %d files\n", len(rows))
	return nil
}

func (f *Flags) runQuery(ctx context.Context, cfg *config.Instance, p *printer) error {
	db, err := romdb.Open(ctx, cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("error opening catalogue: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing catalogue")
		}
	}()

	var rows []database.Romfile
	switch {
	case *f.Search != "":
		rows, err = db.SearchTitle(*f.Search)
	case *f.Fuzzy != "":
		rows, err = db.FuzzySearch(*f.Fuzzy, *f.Limit)
	default:
		rows, err = db.ListByRegion(*f.Region)
	}
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	results := make([]record, 0, len(rows))
	for i := range rows {
		results = append(results, recordFromRow(&rows[i]))
	}
	return p.records(results, true)
}

func (f *Flags) runExport(ctx context.Context, cfg *config.Instance) error {
	db, err := romdb.Open(ctx, cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("error opening catalogue: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing catalogue")
		}
	}()

	rows, err := db.ListRomfiles(*f.Platform)
	if err != nil {
		return fmt.Errorf("error listing catalogue: %w", err)
	}

	if path := *f.ExportCSV; path != "" {
		if err := writeCSVFile(path, rows); err != nil {
			return err
		}
	}
	if path := *f.ExportGameList; path != "" {
		if err := writeGameListFile(path, rows); err != nil {
			return err
		}
	}
	return nil
}

// IsNoAction reports whether err means the user asked for nothing.
func IsNoAction(err error) bool {
	return errors.Is(err, ErrNoAction)
}

func ensureParent(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return nil
}

func cleanField(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ").Replace(s)
}
