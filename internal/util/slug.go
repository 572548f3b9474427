// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides small helpers shared across packages.
package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent decomposes Unicode characters and strips combining marks,
// turning "Café" into "Cafe".
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a title to a URL-friendly anchor id: lowercase ASCII
// letters, digits, and single hyphens in place of spaces. Punctuation is
// dropped and accented characters are folded to their base letter.
func Slugify(s string) string {
	folded, _, _ := transform.String(deaccent, s)
	folded = strings.ToLower(folded)

	var b strings.Builder
	pendingHyphen := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == ' ' || r == '-':
			pendingHyphen = true
		}
	}
	return b.String()
}
