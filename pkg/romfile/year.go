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
	"regexp"
	"strings"
)

var reYear = regexp.MustCompile(`^(19|20)\d\d$`)

// parseYear returns the first parenthesized group holding a four digit year.
// No-Intro names never carry a year tag, so the convention found by the
// region pass short-circuits the search.
func parseYear(filename string, convention NamingConvention) string {
	if convention == ConventionNoIntro {
		return ""
	}

	parenGroups, _ := extractGroups(filename)
	for _, group := range parenGroups {
		if candidate := strings.TrimSpace(group); reYear.MatchString(candidate) {
			return candidate
		}
	}
	return ""
}
