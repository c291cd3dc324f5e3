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

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/romfile/pkg/database"
	"github.com/ZaparooProject/romfile/pkg/export"
	"github.com/ZaparooProject/romfile/pkg/romfile"
	"github.com/rs/zerolog/log"
)

type record struct {
	Platform string `json:"platform,omitempty"`
	Path     string `json:"path,omitempty"`
	romfile.StructuredFilename
}

func recordFromRow(row *database.Romfile) record {
	return record{
		Platform:           row.Platform,
		Path:               row.Path,
		StructuredFilename: row.Structured(),
	}
}

type regionToken struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

type printer struct {
	out  io.Writer
	json bool
}

func newPrinter(out io.Writer, asJSON bool) *printer {
	return &printer{out: out, json: asJSON}
}

func (p *printer) writeJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// records prints one line per result. withPath adds the platform and path
// columns used by scan and catalogue output.
func (p *printer) records(results []record, withPath bool) error {
	if p.json {
		return p.writeJSON(results)
	}
	for i := range results {
		r := &results[i]
		var err error
		if withPath {
			_, err = fmt.Fprintf(p.out, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cleanField(r.Platform), cleanField(r.Path), r.NamingConvention,
				r.RegionCode, cleanField(r.Title), r.Year)
		} else {
			_, err = fmt.Fprintf(p.out, "%s\t%s\t%s\t%s\t%s\n",
				cleanField(r.OriginalFilename), r.NamingConvention,
				r.RegionCode, cleanField(r.Title), r.Year)
		}
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func (p *printer) regions(tokens []regionToken) error {
	if p.json {
		return p.writeJSON(tokens)
	}
	for _, t := range tokens {
		if _, err := fmt.Fprintf(p.out, "%s\t%s\n", t.Token, t.Code); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func writeCSVFile(path string, rows []database.Romfile) (err error) {
	if err := ensureParent(path); err != nil {
		return err
	}
	//nolint:gosec // path comes from the command line
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	if err := export.WriteCSV(f, rows); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("rows", len(rows)).Msg("wrote csv export")
	return nil
}

// writeGameListFile merges rows into the gamelist at path, creating it if
// needed. Entry paths are relative to the gamelist's directory.
func writeGameListFile(path string, rows []database.Romfile) error {
	gl := export.NewGameList()
	//nolint:gosec // path comes from the command line
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := gl.Parse(data); err != nil {
			return fmt.Errorf("existing gamelist %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		if err := ensureParent(path); err != nil {
			return err
		}
	default:
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	root := filepath.Dir(path)
	for i := range rows {
		gl.AddOrUpdate(export.GameFromRomfile(&rows[i], root))
	}
	if err := gl.Save(path); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("games", gl.Len()).Msg("wrote gamelist")
	return nil
}
