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

package matcher

import (
	"sort"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
)

// FuzzyMatch is a candidate slug with its similarity to the query.
type FuzzyMatch struct {
	Slug       string
	Similarity float32
	Distance   int
}

// FindFuzzyMatches returns the candidates whose Jaro-Winkler similarity to
// query is at least minSimilarity, best first. Candidates whose length differs
// from the query by more than maxDistance bytes are skipped without scoring.
// Equal similarities are ordered by Damerau-Levenshtein distance, then by slug.
func FindFuzzyMatches(query string, candidates []string, maxDistance int, minSimilarity float32) []FuzzyMatch {
	var matches []FuzzyMatch

	for _, candidate := range candidates {
		lenDiff := len(query) - len(candidate)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if maxDistance >= 0 && lenDiff > maxDistance {
			continue
		}

		similarity := edlib.JaroWinklerSimilarity(query, candidate)
		if similarity < minSimilarity {
			continue
		}

		log.Debug().
			Str("query", query).
			Str("candidate", candidate).
			Float32("similarity", similarity).
			Msg("fuzzy match candidate accepted")

		matches = append(matches, FuzzyMatch{
			Slug:       candidate,
			Similarity: similarity,
			Distance:   edlib.DamerauLevenshteinDistance(query, candidate),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Slug < matches[j].Slug
	})

	return matches
}
