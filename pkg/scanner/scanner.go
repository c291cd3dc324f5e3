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

// Package scanner walks ROM folders and parses every filename it finds.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/ZaparooProject/romfile/pkg/helpers/syncutil"
	"github.com/ZaparooProject/romfile/pkg/romfile"
	"github.com/charlievieth/fastwalk"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrNotDirectory = errors.New("root is not a directory")

type Options struct {
	// Platform is copied to every entry.
	Platform string
	// Extensions limits which files are parsed, ignoring case. Empty
	// matches every file.
	Extensions []string
	// Workers bounds concurrent parsing. Zero means GOMAXPROCS.
	Workers int
	// Archives lists .zip and .7z files and parses their contents instead
	// of the archive itself.
	Archives       bool
	FollowSymlinks bool
}

// Entry is a parsed file. Files inside an archive get a virtual path of the
// archive path joined with the inner name.
type Entry struct {
	Platform string
	Path     string
	romfile.StructuredFilename
}

type candidate struct {
	path    string
	archive bool
}

// Scan walks root and returns a parsed entry for every matching file, sorted
// by path. File contents are never read, only archive directories.
//
//nolint:gocritic // options struct copied
func Scan(ctx context.Context, root string, opts Options) ([]Entry, error) {
	realRoot, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	exts := normalizeExtensions(opts.Extensions)
	candidates, err := collect(ctx, realRoot, exts, opts)
	if err != nil {
		return nil, err
	}

	// report paths under the root the caller asked for, not its target
	if realRoot != root {
		for i := range candidates {
			candidates[i].path = filepath.Join(root, strings.TrimPrefix(candidates[i].path, realRoot))
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([][]Entry, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = parseCandidate(c, exts, opts.Platform)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan of %s cancelled: %w", root, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan of %s cancelled: %w", root, err)
	}

	entries := make([]Entry, 0, len(candidates))
	for _, r := range results {
		entries = append(entries, r...)
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Path, b.Path)
	})

	log.Debug().
		Str("root", root).
		Str("platform", opts.Platform).
		Int("files", len(entries)).
		Msg("scan complete")
	return entries, nil
}

func resolveRoot(root string) (string, error) {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	info, err := os.Stat(realRoot)
	if err != nil {
		return "", fmt.Errorf("failed to stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	return realRoot, nil
}

//nolint:gocritic // options struct copied
func collect(ctx context.Context, root string, exts []string, opts Options) ([]candidate, error) {
	var mu syncutil.Mutex
	var candidates []candidate

	conf := fastwalk.Config{Follow: opts.FollowSymlinks}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		// symlinked folders are descended by fastwalk when following,
		// symlinked files are always candidates
		if d.Type()&os.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil {
				log.Warn().Err(statErr).Str("path", path).Msg("skipping broken symlink")
				return nil
			}
			if info.IsDir() {
				return nil
			}
		}

		c := candidate{path: path}
		switch {
		case opts.Archives && IsArchive(path):
			c.archive = true
		case !matchExtension(path, exts):
			return nil
		}

		mu.Lock()
		candidates = append(candidates, c)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return candidates, nil
}

func parseCandidate(c candidate, exts []string, platform string) []Entry {
	if !c.archive {
		return []Entry{newEntry(platform, c.path)}
	}

	lister, _ := lookupArchiveLister(c.path)
	inner, err := lister(c.path)
	if err != nil {
		log.Warn().Err(err).Str("path", c.path).Msg("indexing unreadable archive as a plain file")
		return []Entry{newEntry(platform, c.path)}
	}

	entries := make([]Entry, 0, len(inner))
	for _, name := range inner {
		if !matchExtension(name, exts) {
			continue
		}
		entries = append(entries, newEntry(platform, filepath.Join(c.path, name)))
	}
	return entries
}

func newEntry(platform, path string) Entry {
	return Entry{
		Platform:           platform,
		Path:               path,
		StructuredFilename: romfile.Parse(path),
	}
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func matchExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}
