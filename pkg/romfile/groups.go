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

// extractGroups walks a filename once and returns the contents of every
// top-level parenthesized and bracketed tag group, in order of appearance.
// Groups do not nest: an opening bracket inside a parenthesized group is part
// of its content, and vice versa. Empty and unterminated groups are dropped.
func extractGroups(filename string) (parenGroups, bracketGroups []string) {
	const (
		stateOutside = iota
		stateInParen
		stateInBracket
	)

	state := stateOutside
	groupStart := 0
	parenGroups = make([]string, 0, 4)
	bracketGroups = make([]string, 0, 2)

	for i := range len(filename) {
		char := filename[i]

		switch state {
		case stateOutside:
			switch char {
			case '(':
				state = stateInParen
				groupStart = i + 1
			case '[':
				state = stateInBracket
				groupStart = i + 1
			}

		case stateInParen:
			if char == ')' {
				if group := filename[groupStart:i]; group != "" {
					parenGroups = append(parenGroups, group)
				}
				state = stateOutside
			}

		case stateInBracket:
			if char == ']' {
				if group := filename[groupStart:i]; group != "" {
					bracketGroups = append(bracketGroups, group)
				}
				state = stateOutside
			}
		}
	}

	return parenGroups, bracketGroups
}
