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
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// parseRegion resolves the region tokens found in the parenthesized groups of
// a filename. Tokens are tried in the order they appear; the convention of
// the first recognised token becomes the filename's convention, even when a
// later token belongs to another convention's table.
func parseRegion(filename string) (string, NamingConvention) {
	parenGroups, _ := extractGroups(filename)

	var codes []string
	convention := ConventionUnknown

	for _, group := range parenGroups {
		for _, token := range splitRegionTokens(group) {
			if !isRegionCandidate(token) {
				continue
			}
			code, conv, ok := LookupRegion(strings.ToUpper(token))
			if !ok {
				continue
			}
			if len(codes) == 0 {
				convention = conv
			}
			codes = append(codes, code)
		}
	}

	if len(codes) == 0 {
		return UnknownRegion, ConventionUnknown
	}
	return strings.Join(codes, "-"), convention
}

// splitRegionTokens splits a group on commas and hyphens, as in
// "USA, Europe" or "EU-US".
func splitRegionTokens(group string) []string {
	parts := strings.FieldsFunc(group, func(r rune) bool {
		return r == ',' || r == '-'
	})
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// isRegionCandidate filters out two letter tokens written like a capitalised
// word ("En", "De", "Fr"), which in practice are language tags rather than
// region codes. Upper and lower case pairs such as "US" or "de" are kept.
func isRegionCandidate(token string) bool {
	if utf8.RuneCountInString(token) != 2 {
		return true
	}
	// Casers are stateful, so one is built per call.
	titled := cases.Title(language.Und).String(strings.ToLower(token))
	return titled != token
}
