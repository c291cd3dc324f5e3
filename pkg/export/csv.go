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

// Package export writes catalogue rows to formats other tools read.
package export

import (
	"fmt"
	"io"

	"github.com/ZaparooProject/romfile/pkg/database"
	"github.com/gocarina/gocsv"
)

// CSVRow is one line of a CSV export.
type CSVRow struct {
	Platform   string `csv:"platform"`
	Path       string `csv:"path"`
	Filename   string `csv:"filename"`
	Convention string `csv:"convention"`
	Region     string `csv:"region"`
	Title      string `csv:"title"`
	Year       string `csv:"year"`
}

func NewCSVRow(row *database.Romfile) CSVRow {
	return CSVRow{
		Platform:   row.Platform,
		Path:       row.Path,
		Filename:   row.Filename,
		Convention: row.NamingConvention.String(),
		Region:     row.RegionCode,
		Title:      row.Title,
		Year:       row.Year,
	}
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []database.Romfile) error {
	out := make([]CSVRow, 0, len(rows))
	for i := range rows {
		out = append(out, NewCSVRow(&rows[i]))
	}
	if err := gocsv.Marshal(&out, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
