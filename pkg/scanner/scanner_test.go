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
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ZaparooProject/romfile/pkg/config"
	"github.com/ZaparooProject/romfile/pkg/romfile"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("rom"), 0o600))
	}
}

func writeZip(t *testing.T, path string, names ...string) {
	t.Helper()
	f, err := os.Create(path) //nolint:gosec // test path
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		if name[len(name)-1] != '/' {
			_, err = w.Write([]byte("rom"))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func paths(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func TestScan_FiltersAndSorts(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root,
		"sub/Super Game (Europe) (1992).SFC",
		"Legend of Zelda, The (USA).nes",
		"readme.txt",
	)

	entries, err := Scan(context.Background(), root, Options{
		Platform:   "mixed",
		Extensions: []string{".nes", "sfc"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "Legend of Zelda, The (USA).nes"),
		filepath.Join(root, "sub", "Super Game (Europe) (1992).SFC"),
	}, paths(entries))

	assert.Equal(t, "mixed", entries[0].Platform)
	assert.Equal(t, romfile.StructuredFilename{
		OriginalFilename: "Legend of Zelda, The (USA).nes",
		NamingConvention: romfile.ConventionNoIntro,
		RegionCode:       "US",
		Title:            "The Legend of Zelda",
	}, entries[0].StructuredFilename)
	assert.Equal(t, "1992", entries[1].Year)
}

func TestScan_NoFilterMatchesEverything(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, "a.nes", "b.txt", "deep/er/c")

	entries, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestScan_Archives(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeZip(t, filepath.Join(root, "pack.zip"),
		"Game (USA).nes",
		"docs/",
		"docs/readme.txt",
		"more/Other (Japan).NES",
	)

	entries, err := Scan(context.Background(), root, Options{
		Extensions: []string{".nes"},
		Archives:   true,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, filepath.Join(root, "pack.zip", "Game (USA).nes"), entries[0].Path)
	assert.Equal(t, "Game", entries[0].Title)
	assert.Equal(t, "US", entries[0].RegionCode)
	assert.Equal(t, filepath.Join(root, "pack.zip", "more", "Other (Japan).NES"), entries[1].Path)
	assert.Equal(t, "Other (Japan).NES", entries[1].OriginalFilename)

	// without archive listing the zip is just another file
	entries, err = Scan(context.Background(), root, Options{Extensions: []string{".zip"}})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "pack.zip")}, paths(entries))
}

func TestScan_UnreadableArchivesIndexedAsFiles(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, "Broken (USA).zip", "Broken (Europe).7z")

	entries, err := Scan(context.Background(), root, Options{
		Extensions: []string{".nes"},
		Archives:   true,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "EU", entries[0].RegionCode)
	assert.Equal(t, "US", entries[1].RegionCode)
}

func TestScan_RootErrors(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, "file.nes")

	_, err := Scan(context.Background(), filepath.Join(root, "file.nes"), Options{})
	require.ErrorIs(t, err, ErrNotDirectory)

	_, err = Scan(context.Background(), filepath.Join(root, "missing"), Options{})
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestScan_Cancelled(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, "a.nes", "b.nes")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, root, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestScan_WorkerCountDoesNotChangeResult(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	names := make([]string, 0, 40)
	for i := range 40 {
		names = append(names, filepath.Join(string(rune('a'+i%5)), "Game "+string(rune('A'+i))+" (USA).nes"))
	}
	writeFiles(t, root, names...)

	one, err := Scan(context.Background(), root, Options{Workers: 1})
	require.NoError(t, err)
	many, err := Scan(context.Background(), root, Options{Workers: 8})
	require.NoError(t, err)

	assert.Len(t, one, 40)
	assert.Equal(t, one, many)
}

func TestScan_Symlinks(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on windows")
	}

	target := t.TempDir()
	writeFiles(t, target, "Linked (USA).nes")

	root := t.TempDir()
	writeFiles(t, root, "Local (USA).nes")
	require.NoError(t, os.Symlink(target, filepath.Join(root, "linked")))

	entries, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "Local (USA).nes")}, paths(entries))

	entries, err = Scan(context.Background(), root, Options{FollowSymlinks: true})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "Local (USA).nes"),
		filepath.Join(root, "linked", "Linked (USA).nes"),
	}, paths(entries))

	// a symlinked root reports paths under the link
	link := filepath.Join(t.TempDir(), "roms")
	require.NoError(t, os.Symlink(target, link))
	entries, err = Scan(context.Background(), link, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(link, "Linked (USA).nes")}, paths(entries))
}

func TestScanPlatforms(t *testing.T) {
	t.Parallel()
	nesDir := t.TempDir()
	snesDir := t.TempDir()
	writeFiles(t, nesDir, "Game (USA).nes", "Game (USA).sfc")
	writeFiles(t, snesDir, "Other (Japan).sfc", "notes.txt")

	cfg, err := config.NewConfig(afero.NewMemMapFs(), "/config", config.BaseDefaults)
	require.NoError(t, err)
	cfg.SetScanSettings(config.Scan{Extensions: []string{".nes"}})
	cfg.SetPlatform(config.Platform{
		ID:      "nes",
		Folders: []string{nesDir, filepath.Join(nesDir, "missing")},
	})
	cfg.SetPlatform(config.Platform{
		ID:         "snes",
		Folders:    []string{snesDir},
		Extensions: []string{".sfc"},
	})

	entries, err := ScanPlatforms(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "nes", entries[0].Platform)
	assert.Equal(t, filepath.Join(nesDir, "Game (USA).nes"), entries[0].Path)
	assert.Equal(t, "snes", entries[1].Platform)
	assert.Equal(t, "JP", entries[1].RegionCode)
}

func TestNormalizeExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{".nes", ".sfc", ".gb"}, normalizeExtensions([]string{"NES", " .sfc ", "", ".Gb"}))
	assert.True(t, matchExtension("/a/b.NES", []string{".nes"}))
	assert.False(t, matchExtension("/a/b", []string{".nes"}))
	assert.True(t, matchExtension("/a/b", nil))
}
