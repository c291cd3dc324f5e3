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

package scanner

import (
	"archive/zip"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/rs/zerolog/log"
)

// archiveLister lists the regular files stored in an archive.
type archiveLister func(path string) ([]string, error)

var archiveListers = map[string]archiveLister{
	".zip": listZip,
	".7z":  listSevenZip,
}

func lookupArchiveLister(path string) (archiveLister, bool) {
	lister, ok := archiveListers[strings.ToLower(filepath.Ext(path))]
	return lister, ok
}

// IsArchive reports whether path has an extension the scanner can list.
func IsArchive(path string) bool {
	_, ok := lookupArchiveLister(path)
	return ok
}

func listZip(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip file: %w", err)
	}
	defer func(r *zip.ReadCloser) {
		if err := r.Close(); err != nil {
			log.Warn().Err(err).Msg("close zip failed")
		}
	}(r)

	files := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files = append(files, f.Name)
	}
	return files, nil
}

func listSevenZip(path string) ([]string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open 7z file: %w", err)
	}
	defer func(r *sevenzip.ReadCloser) {
		if err := r.Close(); err != nil {
			log.Warn().Err(err).Msg("close 7z failed")
		}
	}(r)

	files := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files = append(files, f.Name)
	}
	return files, nil
}
