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

package romfile

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// titleChars is the character class allowed in a title run.
const titleChars = `\p{L}\p{Mn}\p{Nd}\p{Pc}+~@!#$%^&*;,'"?.\-\s`

// reTitle skips leading tag groups and any stray characters that cannot
// start a title, then captures the first run of title characters. An opening
// bracket is never skipped on its own, so a filename made only of tag groups
// has no title.
var reTitle = regexp.MustCompile(
	`^(?:\([^)]*\)|\[[^\]]*\]|\s|[^` + titleChars + `(\[])*` +
		`([` + titleChars + `]+)`,
)

// trailingArticles are the articles catalogues move to the end of a title.
var trailingArticles = []string{"The", "A", "Die", "De", "La", "Le", "Les"}

func parseTitle(filename string) string {
	loc := reTitle.FindStringSubmatchIndex(filename)
	if loc == nil || loc[2] < 0 {
		return ""
	}

	title := strings.TrimSpace(filename[loc[2]:loc[3]])
	// Only a run that reaches the end of the filename can contain the
	// extension; otherwise a dot belongs to the title ("Dr. Mario (USA).nes").
	if loc[3] == len(filename) {
		title = stripExtension(title)
	}

	return RotateArticle(title)
}

func stripExtension(name string) string {
	ext := filepath.Ext(name)
	if len(ext) < 2 || strings.ContainsFunc(ext, unicode.IsSpace) {
		return name
	}
	return strings.TrimSpace(strings.TrimSuffix(name, ext))
}

// RotateArticle moves a trailing comma separated article to the front of a
// title: "Legend of Zelda, The" becomes "The Legend of Zelda". Earlier commas
// are kept as they are. Titles without a trailing article are returned
// unchanged.
func RotateArticle(title string) string {
	if !hasTrailingArticle(title) {
		return title
	}
	i := strings.LastIndex(title, ",")
	article := strings.TrimSpace(title[i+1:])
	return strings.TrimSpace(article + " " + strings.TrimSpace(title[:i]))
}

// UnrotateArticle is the inverse of RotateArticle: "The Legend of Zelda"
// becomes "Legend of Zelda, The".
func UnrotateArticle(title string) string {
	for _, article := range trailingArticles {
		prefix := article + " "
		if len(title) > len(prefix) && strings.EqualFold(title[:len(prefix)], prefix) {
			return title[len(prefix):] + ", " + title[:len(article)]
		}
	}
	return title
}

func hasTrailingArticle(title string) bool {
	for _, article := range trailingArticles {
		suffix := ", " + article
		if len(title) >= len(suffix) && strings.EqualFold(title[len(title)-len(suffix):], suffix) {
			return true
		}
	}
	return false
}
