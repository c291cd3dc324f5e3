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

// Package database holds the row types shared by the catalogue store and the
// helpers every SQLite database in the module relies on.
package database

import (
	"time"

	"github.com/ZaparooProject/romfile/pkg/database/slugs"
	"github.com/ZaparooProject/romfile/pkg/romfile"
)

// Romfile is one catalogued file: where it was found and what its name says
// about it.
type Romfile struct {
	ScanID           string
	Platform         string
	Path             string
	Filename         string
	Title            string
	SortTitle        string
	Slug             string
	RegionCode       string
	Year             string
	DBID             int64
	NamingConvention romfile.NamingConvention
}

// NewRomfile builds a catalogue row for a parsed filename found at path.
//
//nolint:gocritic // StructuredFilename is passed by value everywhere else
func NewRomfile(platform, path string, sf romfile.StructuredFilename) Romfile {
	return Romfile{
		Platform:         platform,
		Path:             path,
		Filename:         sf.OriginalFilename,
		Title:            sf.Title,
		SortTitle:        sf.SortTitle(),
		Slug:             slugs.Slugify(sf.Title),
		RegionCode:       sf.RegionCode,
		Year:             sf.Year,
		NamingConvention: sf.NamingConvention,
	}
}

// Structured returns the parse result the row was built from.
func (r *Romfile) Structured() romfile.StructuredFilename {
	return romfile.StructuredFilename{
		OriginalFilename: r.Filename,
		NamingConvention: r.NamingConvention,
		RegionCode:       r.RegionCode,
		Title:            r.Title,
		Year:             r.Year,
	}
}

// ScanRecord describes one pass over a ROM folder.
type ScanRecord struct {
	StartedAt  time.Time
	FinishedAt time.Time
	ScanID     string
	Root       string
	Platform   string
	Files      int
}

// Finished reports whether FinishScan was recorded for the scan.
func (s *ScanRecord) Finished() bool {
	return !s.FinishedAt.IsZero()
}

// ConventionCount is the number of catalogued files using one naming
// convention.
type ConventionCount struct {
	NamingConvention romfile.NamingConvention
	Count            int
}
