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

// Package romfile extracts structured metadata from ROM image filenames.
//
// Filenames produced by the GoodTools, No-Intro and TOSEC cataloguing
// conventions carry region, revision and release information in parenthesized
// and bracketed tag groups. Parse classifies the convention, resolves the
// region tokens to canonical codes, recovers a display title and infers a
// release year, using nothing but the filename itself.
package romfile

import (
	"fmt"
	"strings"
)

// UnknownRegion is the region code of a filename with no recognised region
// token.
const UnknownRegion = "ZZ"

// NamingConvention identifies the cataloguing convention a filename follows.
type NamingConvention uint8

const (
	ConventionUnknown NamingConvention = iota
	ConventionGoodTools
	ConventionNoIntro
	ConventionTOSEC
)

var conventionNames = map[NamingConvention]string{
	ConventionUnknown:   "unknown",
	ConventionGoodTools: "goodtools",
	ConventionNoIntro:   "nointro",
	ConventionTOSEC:     "tosec",
}

func (c NamingConvention) String() string {
	if name, ok := conventionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("NamingConvention(%d)", uint8(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c NamingConvention) MarshalText() ([]byte, error) {
	if _, ok := conventionNames[c]; !ok {
		return nil, fmt.Errorf("invalid naming convention: %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *NamingConvention) UnmarshalText(text []byte) error {
	parsed, err := ParseNamingConvention(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseNamingConvention converts a convention name back to its value.
// Matching is case-insensitive and accepts "no-intro" for No-Intro.
func ParseNamingConvention(s string) (NamingConvention, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "no-intro" {
		return ConventionNoIntro, nil
	}
	for conv, convName := range conventionNames {
		if convName == name {
			return conv, nil
		}
	}
	return ConventionUnknown, fmt.Errorf("unknown naming convention: %q", s)
}

// StructuredFilename is the metadata parsed out of a single ROM filename.
// Values are returned by Parse fully populated and should be treated as
// immutable.
type StructuredFilename struct {
	// OriginalFilename is the file name component of the parsed input.
	OriginalFilename string `json:"originalFilename"`
	// RegionCode is one or more canonical region codes joined with "-",
	// or UnknownRegion.
	RegionCode string `json:"regionCode"`
	// Title is the display title with tag groups and extension removed.
	Title string `json:"title"`
	// Year is a four digit release year, or empty when none is known.
	Year             string           `json:"year,omitempty"`
	NamingConvention NamingConvention `json:"namingConvention"`
}

// HasYear reports whether a release year was found.
func (sf StructuredFilename) HasYear() bool {
	return sf.Year != ""
}

// Regions returns the individual canonical region codes, or nil when the
// region is unknown.
func (sf StructuredFilename) Regions() []string {
	if sf.RegionCode == "" || sf.RegionCode == UnknownRegion {
		return nil
	}
	return strings.Split(sf.RegionCode, "-")
}

// SortTitle returns the title with a leading article moved back to the end,
// the form catalogues sort on ("The Legend" -> "Legend, The").
func (sf StructuredFilename) SortTitle() string {
	return UnrotateArticle(sf.Title)
}

// Parse extracts structured metadata from a filename. Any directory prefix,
// using either "/" or "\" separators, is ignored.
//
// Parse never fails: filenames without recognisable tags produce
// UnknownRegion, ConventionUnknown and an empty year, and a filename with no
// title characters produces an empty title.
func Parse(filename string) StructuredFilename {
	name := baseName(filename)

	// The year pass depends on the convention found by the region pass, so
	// the convention is threaded through explicitly.
	region, convention := parseRegion(name)

	return StructuredFilename{
		OriginalFilename: name,
		NamingConvention: convention,
		RegionCode:       region,
		Title:            parseTitle(name),
		Year:             parseYear(name, convention),
	}
}

// baseName strips everything up to the last path separator. Both separators
// are handled so Windows paths parse the same on every platform.
func baseName(path string) string {
	name := strings.TrimRight(path, `/\`)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}
