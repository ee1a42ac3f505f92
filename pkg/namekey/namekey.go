// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package namekey canonicalises item names for storage and comparison.
//
// # Usage
//
// Names are displayed as submitted (trimmed, NFC) but compared through their
// key, so "Toyota", "TOYOTA" and "toyota" are the same item and a search for
// "yot" finds all of them.
package namekey

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize trims surrounding whitespace and composes the name to NFC.
// It is the form that is stored and shown to users.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Key converts a name into its case-insensitive comparison key.
//
// # Transformation Pipeline
//
// 1. Trims whitespace and normalizes to NFC.
// 2. Applies full Unicode case folding ("Straße" → "strasse").
// 3. Re-composes to NFC, since folding can leave decomposed sequences.
func Key(s string) string {
	// Casers are stateful, so a fresh chain is built per call.
	chain := transform.Chain(norm.NFC, cases.Fold(), norm.NFC)

	result, _, err := transform.String(chain, strings.TrimSpace(s))
	if err != nil {
		return strings.ToLower(Normalize(s))
	}
	return result
}

// Equal reports whether two names collide under [Key].
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
