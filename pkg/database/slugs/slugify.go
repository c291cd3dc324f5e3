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

package slugs

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// leadingArticles are dropped from the front of a title before slugging so
// "The Legend of Zelda" and "Legend of Zelda, The" share a slug.
var leadingArticles = []string{"the", "a", "an", "die", "de", "la", "le", "les"}

// Slugify converts a game title to a normalized search key.
//
// The title is width folded, stripped of diacritics and lowercased. A leading
// article is removed, "&" is spelled out and everything that is not a letter
// or digit is dropped:
//
//	Slugify("The Legend of Zelda")   → "legendofzelda"
//	Slugify("Pokémon Red & Blue")    → "pokemonredandblue"
//	Slugify("ＳＵＰＥＲ Ｍario")      → "supermario"
//
// Slugify is deterministic and idempotent.
func Slugify(title string) string {
	s := NormalizeWidth(title)
	s = removeDiacritics(s)
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripLeadingArticle(s)
	s = strings.ReplaceAll(s, "&", " and ")

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// NormalizeWidth folds fullwidth ASCII to halfwidth and halfwidth CJK to
// fullwidth. Returns the input unchanged if the transform fails.
func NormalizeWidth(s string) string {
	if normalized, _, err := transform.String(width.Fold, s); err == nil {
		return normalized
	}
	return s
}

func removeDiacritics(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if result, _, err := transform.String(t, s); err == nil {
		return result
	}
	return s
}

func stripLeadingArticle(s string) string {
	for _, article := range leadingArticles {
		prefix := article + " "
		if len(s) > len(prefix) && strings.HasPrefix(s, prefix) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	return s
}
