// Package contaminants classifies free-text water quality descriptions into
// canonical contaminant categories used for matching.
package contaminants

import (
	"sort"
	"strings"
)

// Canonical category keys
const (
	Organics        = "organics"
	SuspendedSolids = "suspended_solids"
	Nutrients       = "nutrients"
	Metals          = "metals"
	Hydrocarbons    = "hydrocarbons"
	PH              = "ph"
	Color           = "color"
)

// registry maps each category to the tokens that signal it. A single token
// hit is enough to flag the category. The pH tokens are deliberately narrow
// so "phosphorus" does not trigger a pH hit.
var registry = map[string][]string{
	Organics:        {"bod", "cod", "fog"},
	SuspendedSolids: {"tss"},
	Nutrients:       {"nitrogen", "phosphorus", "ammonia", "tn", "tp"},
	Metals:          {"metal", "chromium", "nickel", "copper", "zinc", "lead"},
	Hydrocarbons:    {"oil", "hydrocarbon", "petroleum"},
	PH:              {"ph:", "ph level", "ph=", "'ph'"},
	Color:           {"color", "dyes"},
}

// Categories returns all canonical category keys in sorted order
func Categories() []string {
	out := make([]string, 0, len(registry))
	for c := range registry {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Tokens returns the signal tokens for a category
func Tokens(category string) []string {
	return registry[category]
}

// Register adds or replaces the token list for a category. Intended for
// deployment-specific extensions loaded at startup.
func Register(category string, tokens []string) {
	registry[category] = tokens
}

// Classify scans text for category tokens and accumulates hits into found.
// Matching is case-insensitive substring containment; already-present
// categories stay set, so repeated calls over multiple fields union together.
func Classify(text string, found map[string]bool) {
	if text == "" {
		return
	}
	lower := strings.ToLower(text)
	for category, tokens := range registry {
		if found[category] {
			continue
		}
		for _, token := range tokens {
			if strings.Contains(lower, token) {
				found[category] = true
				break
			}
		}
	}
}

// ClassifyAll is a convenience wrapper returning a fresh category set
func ClassifyAll(texts ...string) map[string]bool {
	found := make(map[string]bool)
	for _, t := range texts {
		Classify(t, found)
	}
	return found
}
