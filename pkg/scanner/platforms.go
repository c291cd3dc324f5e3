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
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/ZaparooProject/romfile/pkg/config"
	"github.com/rs/zerolog/log"
)

// ScanPlatforms scans every folder of every configured platform. A platform's
// own extension list replaces the global one. Folders that are missing or
// not directories are skipped with a warning.
func ScanPlatforms(ctx context.Context, cfg *config.Instance) ([]Entry, error) {
	settings := cfg.ScanSettings()

	var all []Entry
	for _, p := range cfg.Platforms() {
		opts := Options{
			Platform:       p.ID,
			Extensions:     settings.Extensions,
			Workers:        settings.Workers,
			Archives:       settings.Archives,
			FollowSymlinks: settings.FollowSymlinks,
		}
		if len(p.Extensions) > 0 {
			opts.Extensions = p.Extensions
		}

		for _, folder := range p.Folders {
			entries, err := Scan(ctx, folder, opts)
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrNotDirectory) {
				log.Warn().Err(err).Str("platform", p.ID).Msg("skipping platform folder")
				continue
			} else if err != nil {
				return nil, fmt.Errorf("failed to scan %s folder %s: %w", p.ID, folder, err)
			}
			all = append(all, entries...)
		}
	}
	return all, nil
}
