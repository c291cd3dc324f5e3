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

package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/romfile/pkg/database"
	"github.com/ZaparooProject/romfile/pkg/romfile"
	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRows() []database.Romfile {
	paths := []string{
		"/roms/snes/Super Game (Europe) (1992).sfc",
		"/roms/nes/Legend of Zelda, The (USA).nes",
		"/roms/misc/Mystery ROM.bin",
	}
	rows := make([]database.Romfile, 0, len(paths))
	for _, p := range paths {
		rows = append(rows, database.NewRomfile("any", p, romfile.Parse(p)))
	}
	return rows
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testRows()))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Equal(t, "platform,path,filename,convention,region,title,year", string(lines[0]))

	var got []CSVRow
	require.NoError(t, gocsv.Unmarshal(&buf, &got))
	require.Len(t, got, 3)
	assert.Equal(t, CSVRow{
		Platform:   "any",
		Path:       "/roms/snes/Super Game (Europe) (1992).sfc",
		Filename:   "Super Game (Europe) (1992).sfc",
		Convention: "goodtools",
		Region:     "EU",
		Title:      "Super Game",
		Year:       "1992",
	}, got[0])
	assert.Equal(t, "The Legend of Zelda", got[1].Title)
	assert.Equal(t, "ZZ", got[2].Region)
	assert.Equal(t, "unknown", got[2].Convention)
}

func TestWriteCSV_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "platform,path,filename,convention,region,title,year", string(bytes.TrimSpace(buf.Bytes())))
}

func TestGameFromRomfile(t *testing.T) {
	t.Parallel()
	rows := testRows()

	g := GameFromRomfile(&rows[0], "/roms/snes")
	assert.Equal(t, Game{
		Path:        "./Super Game (Europe) (1992).sfc",
		Name:        "Super Game",
		Region:      "eu",
		ReleaseDate: "19920101T000000",
	}, g)

	g = GameFromRomfile(&rows[2], "/elsewhere")
	assert.Equal(t, "/roms/misc/Mystery ROM.bin", g.Path)
	assert.Empty(t, g.Region)
	assert.Empty(t, g.ReleaseDate)

	untitled := database.NewRomfile("nes", "/roms/(USA).nes", romfile.Parse("(USA).nes"))
	assert.Equal(t, "(USA).nes", GameFromRomfile(&untitled, "/roms").Name)
}

func TestGameList_AddOrUpdate(t *testing.T) {
	t.Parallel()

	gl := NewGameList()
	gl.AddOrUpdate(Game{Path: "./a.nes", Name: "A", Region: "us"})
	gl.AddOrUpdate(Game{Path: "./b.nes", Name: "B"})
	gl.AddOrUpdate(Game{Path: "./a.nes", Name: "A Prime", ReleaseDate: "19900101T000000"})
	assert.Equal(t, 2, gl.Len())

	a, ok := gl.Get("./a.nes")
	require.True(t, ok)
	assert.Equal(t, Game{
		Path:        "./a.nes",
		Name:        "A Prime",
		Region:      "us",
		ReleaseDate: "19900101T000000",
	}, a)

	_, ok = gl.Get("./missing.nes")
	assert.False(t, ok)
}

func TestGameList_ParseKeepsForeignElements(t *testing.T) {
	t.Parallel()

	gl := NewGameList()
	require.NoError(t, gl.Parse([]byte(`<?xml version="1.0"?>
<gameList>
	<game>
		<path>./a.nes</path>
		<name>Old</name>
		<image>./media/a.png</image>
	</game>
</gameList>`)))

	gl.AddOrUpdate(Game{Path: "./a.nes", Name: "New"})

	var buf bytes.Buffer
	_, err := gl.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<name>New</name>")
	assert.Contains(t, buf.String(), "<image>./media/a.png</image>")
	assert.NotContains(t, buf.String(), "Old")
}

func TestGameList_ParseErrors(t *testing.T) {
	t.Parallel()

	gl := NewGameList()
	require.Error(t, gl.Parse([]byte("<<<not xml")))
	require.Error(t, gl.Parse([]byte("<other/>")))
	assert.Equal(t, 0, gl.Len(), "failed parse keeps the previous document")
}

func TestGameList_Save(t *testing.T) {
	t.Parallel()

	gl := NewGameList()
	rows := testRows()
	for i := range rows {
		gl.AddOrUpdate(GameFromRomfile(&rows[i], "/roms"))
	}

	path := filepath.Join(t.TempDir(), "gamelist.xml")
	require.NoError(t, gl.Save(path))

	data, err := os.ReadFile(path) //nolint:gosec // test path
	require.NoError(t, err)

	reloaded := NewGameList()
	require.NoError(t, reloaded.Parse(data))
	assert.Equal(t, 3, reloaded.Len())

	zelda, ok := reloaded.Get("./nes/Legend of Zelda, The (USA).nes")
	require.True(t, ok)
	assert.Equal(t, "The Legend of Zelda", zelda.Name)
	assert.Equal(t, "us", zelda.Region)
}
