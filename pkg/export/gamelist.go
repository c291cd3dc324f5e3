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
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/romfile/pkg/database"
	"github.com/ZaparooProject/romfile/pkg/romfile"
	"github.com/beevik/etree"
)

const (
	GameListElement    = "gameList"
	GameElement        = "game"
	PathElement        = "path"
	NameElement        = "name"
	RegionElement      = "region"
	ReleaseDateElement = "releasedate"
)

// Game is the subset of an EmulationStation gamelist entry a filename can
// fill in.
type Game struct {
	Path        string
	Name        string
	Region      string
	ReleaseDate string
}

// GameFromRomfile builds a gamelist entry for row. The path is made relative
// to root in the "./name" form EmulationStation expects when possible.
func GameFromRomfile(row *database.Romfile, root string) Game {
	path := row.Path
	if rel, err := filepath.Rel(root, row.Path); err == nil && !strings.HasPrefix(rel, "..") {
		path = "./" + filepath.ToSlash(rel)
	}

	name := row.Title
	if name == "" {
		name = row.Filename
	}

	g := Game{Path: path, Name: name}
	if row.RegionCode != "" && row.RegionCode != romfile.UnknownRegion {
		g.Region = strings.ToLower(row.RegionCode)
	}
	if row.Year != "" {
		g.ReleaseDate = row.Year + "0101T000000"
	}
	return g
}

// GameList is an EmulationStation gamelist.xml document.
type GameList struct {
	document *etree.Document
}

func NewGameList() *GameList {
	return &GameList{document: emptyGameList()}
}

func emptyGameList() *etree.Document {
	document := etree.NewDocument()
	document.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	document.CreateElement(GameListElement)
	return document
}

// Parse replaces the document with the gamelist in b.
func (gl *GameList) Parse(b []byte) error {
	document := etree.NewDocument()
	if err := document.ReadFromBytes(b); err != nil {
		return fmt.Errorf("failed to parse gamelist: %w", err)
	}
	if document.SelectElement(GameListElement) == nil {
		return fmt.Errorf("failed to parse gamelist: missing %s element", GameListElement)
	}
	gl.document = document
	return nil
}

func (gl *GameList) root() *etree.Element {
	return gl.document.SelectElement(GameListElement)
}

func (gl *GameList) findGame(path string) *etree.Element {
	for _, game := range gl.root().SelectElements(GameElement) {
		if el := game.SelectElement(PathElement); el != nil && el.Text() == path {
			return game
		}
	}
	return nil
}

// Get returns the entry stored for path.
func (gl *GameList) Get(path string) (Game, bool) {
	game := gl.findGame(path)
	if game == nil {
		return Game{}, false
	}
	text := func(tag string) string {
		if el := game.SelectElement(tag); el != nil {
			return el.Text()
		}
		return ""
	}
	return Game{
		Path:        path,
		Name:        text(NameElement),
		Region:      text(RegionElement),
		ReleaseDate: text(ReleaseDateElement),
	}, true
}

func (gl *GameList) Len() int {
	return len(gl.root().SelectElements(GameElement))
}

// AddOrUpdate adds g, or updates the entry with the same path. Empty fields
// never overwrite existing values and elements this package does not manage
// are left untouched.
func (gl *GameList) AddOrUpdate(g Game) {
	game := gl.findGame(g.Path)
	if game == nil {
		game = gl.root().CreateElement(GameElement)
		game.CreateElement(PathElement).SetText(g.Path)
	}

	set := func(tag, value string) {
		if value == "" {
			return
		}
		if el := game.SelectElement(tag); el != nil {
			el.SetText(value)
		} else {
			game.CreateElement(tag).SetText(value)
		}
	}
	set(NameElement, g.Name)
	set(RegionElement, g.Region)
	set(ReleaseDateElement, g.ReleaseDate)
}

func (gl *GameList) WriteTo(w io.Writer) (int64, error) {
	gl.document.Indent(4)
	n, err := gl.document.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write gamelist: %w", err)
	}
	return n, nil
}

func (gl *GameList) Save(path string) error {
	gl.document.Indent(4)
	if err := gl.document.WriteToFile(path); err != nil {
		return fmt.Errorf("failed to save gamelist: %w", err)
	}
	return nil
}
