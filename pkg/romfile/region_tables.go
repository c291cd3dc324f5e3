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
	"maps"
	"slices"
)

// Canonical region codes are the upper case two letter country codes used by
// TOSEC, plus EU for Europe, AS for Asia and WW for world-wide releases. A
// token covering several territories maps to several codes joined with "-".

// goodToolsRegions maps GoodTools country codes to canonical region codes.
var goodToolsRegions = map[string]string{
	"1":   "JP-KR",
	"4":   "US-BR",
	"A":   "AU",
	"B":   "BR",
	"C":   "CN",
	"E":   "EU",
	"F":   "FR",
	"FC":  "CA",
	"FN":  "FI",
	"G":   "DE",
	"GR":  "GR",
	"HK":  "HK",
	"I":   "IT",
	"J":   "JP",
	"JU":  "JP-US",
	"JUE": "JP-US-EU",
	"K":   "KR",
	"NL":  "NL",
	"NO":  "NO",
	"R":   "RU",
	"S":   "ES",
	"SW":  "SE",
	"U":   "US",
	"UE":  "US-EU",
	"UK":  "GB",
	"W":   "WW",
	// PAL-era GoodTools sets spell the European territory out in full.
	"EUROPE": "EU",
}

// noIntroRegions maps No-Intro region names to canonical region codes.
var noIntroRegions = map[string]string{
	"ARGENTINA":      "AR",
	"ASIA":           "AS",
	"AUSTRALIA":      "AU",
	"AUSTRIA":        "AT",
	"BELGIUM":        "BE",
	"BRAZIL":         "BR",
	"CANADA":         "CA",
	"CHINA":          "CN",
	"CROATIA":        "HR",
	"DENMARK":        "DK",
	"FINLAND":        "FI",
	"FRANCE":         "FR",
	"GERMANY":        "DE",
	"GREECE":         "GR",
	"HONG KONG":      "HK",
	"INDIA":          "IN",
	"IRELAND":        "IE",
	"ISRAEL":         "IL",
	"ITALY":          "IT",
	"JAPAN":          "JP",
	"KOREA":          "KR",
	"MEXICO":         "MX",
	"NETHERLANDS":    "NL",
	"NEW ZEALAND":    "NZ",
	"NORWAY":         "NO",
	"POLAND":         "PL",
	"PORTUGAL":       "PT",
	"RUSSIA":         "RU",
	"SCANDINAVIA":    "DK-NO-SE",
	"SINGAPORE":      "SG",
	"SOUTH AFRICA":   "ZA",
	"SPAIN":          "ES",
	"SWEDEN":         "SE",
	"SWITZERLAND":    "CH",
	"TAIWAN":         "TW",
	"TURKEY":         "TR",
	"UNITED KINGDOM": "GB",
	"USA":            "US",
	"WORLD":          "WW",
}

// tosecRegions is the set of TOSEC country codes. TOSEC codes are already
// canonical, so the set is only used to validate tokens.
var tosecRegions = map[string]struct{}{
	"AE": {}, "AL": {}, "AS": {}, "AT": {}, "AU": {}, "BA": {}, "BE": {}, "BG": {},
	"BR": {}, "CA": {}, "CH": {}, "CL": {}, "CN": {}, "CS": {}, "CY": {}, "CZ": {},
	"DE": {}, "DK": {}, "EE": {}, "EG": {}, "ES": {}, "EU": {}, "FI": {}, "FR": {},
	"GB": {}, "GR": {}, "HK": {}, "HR": {}, "HU": {}, "ID": {}, "IE": {}, "IL": {},
	"IN": {}, "IR": {}, "IS": {}, "IT": {}, "JO": {}, "JP": {}, "KR": {}, "LT": {},
	"LU": {}, "LV": {}, "MN": {}, "MX": {}, "MY": {}, "NL": {}, "NO": {}, "NP": {},
	"NZ": {}, "OM": {}, "PE": {}, "PH": {}, "PL": {}, "PT": {}, "QA": {}, "RO": {},
	"RU": {}, "SE": {}, "SG": {}, "SI": {}, "SK": {}, "TH": {}, "TR": {}, "TW": {},
	"US": {}, "VN": {}, "YU": {}, "ZA": {},
}

// LookupRegion resolves an upper case region token. Tables are consulted in
// a fixed order, GoodTools then No-Intro then TOSEC, and the first table
// containing the token decides both the code and the convention.
func LookupRegion(token string) (code string, convention NamingConvention, ok bool) {
	if code, ok := goodToolsRegions[token]; ok {
		return code, ConventionGoodTools, true
	}
	if code, ok := noIntroRegions[token]; ok {
		return code, ConventionNoIntro, true
	}
	if _, ok := tosecRegions[token]; ok {
		return token, ConventionTOSEC, true
	}
	return "", ConventionUnknown, false
}

// RegionTokens returns the sorted region tokens known for a convention.
func RegionTokens(convention NamingConvention) []string {
	switch convention {
	case ConventionGoodTools:
		return slices.Sorted(maps.Keys(goodToolsRegions))
	case ConventionNoIntro:
		return slices.Sorted(maps.Keys(noIntroRegions))
	case ConventionTOSEC:
		return slices.Sorted(maps.Keys(tosecRegions))
	default:
		return nil
	}
}
