// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// disallowed matches anything that isn't a word character, space, or hyphen.
	disallowed = regexp.MustCompile(`[^\w\s-]`)
	// separators collapses runs of hyphens and whitespace into one hyphen.
	separators = regexp.MustCompile(`[-\s]+`)
)

// Generate creates a URL-friendly slug from the given string. Accented
// letters are folded to their ASCII base and other non-ASCII runes dropped.
// Example: "Café Crème 2026" → "cafe-creme-2026"
func Generate(s string) string {
	result := foldASCII(s)
	result = strings.ToLower(result)
	result = disallowed.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(strings.TrimSpace(result), "-")
	return strings.Trim(result, "-_")
}

// foldASCII decomposes s and keeps only the ASCII runes, so "é" becomes "e".
func foldASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFKD.String(s) {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}
