package intent

import (
	"sort"
	"strings"
)

// aliasTable expands target/candidate tokens with interchangeable phrasings
// so "go gate" resolves against an exit named "priory gate". Every member of
// a group expands to the whole group.
var aliasTable = [][]string{
	{"friar", "franciscan", "monk", "brother"},
	{"prior", "superior", "father"},
	{"gate", "gatehouse", "entrance"},
	{"church", "chapel", "nave", "sanctuary"},
	{"refectory", "hall", "frater"},
	{"dormitory", "dorter", "cells"},
	{"cloister", "garth", "walk"},
	{"infirmary", "sickhouse", "hospital"},
	{"scriptorium", "library", "books"},
	{"garden", "herbary", "plot"},
	{"village", "town", "hamlet"},
	{"almoner", "steward", "bursar"},
	{"well", "cistern"},
	{"graveyard", "cemetery", "churchyard"},
}

var aliasGroups = buildAliasGroups()

func buildAliasGroups() map[string][]string {
	groups := make(map[string][]string)
	for _, group := range aliasTable {
		for _, word := range group {
			groups[word] = group
		}
	}
	return groups
}

// ResolveKey maps a user-supplied target phrase onto one of a small set of
// scene-defined keys (exit or action names) despite imprecise phrasing.
// Exact normalized match wins outright; otherwise candidates are scored by
// 10×(token overlap) − |candidate token count − target token count| over
// alias-expanded token sets, highest positive score wins, ties broken by
// first occurrence in the candidates slice. Callers sourcing candidates from
// a map must sort them first so resolution is deterministic.
func ResolveKey(target string, candidates []string) (string, bool) {
	norm := normalize(target)
	if norm == "" {
		return "", false
	}

	for _, cand := range candidates {
		if normalize(cand) == norm {
			return cand, true
		}
	}

	targetTokens := strings.Fields(norm)

	best, bestScore := "", 0
	for _, cand := range candidates {
		candNorm := normalize(cand)
		candTokens := strings.Fields(candNorm)
		// Expanding only the candidate side keeps overlap counts bounded by
		// the raw target token count while still matching either direction.
		candSet := expandTokens(candTokens)

		overlap := 0
		for _, tok := range targetTokens {
			if candSet[tok] {
				overlap++
			}
		}
		score := 10*overlap - abs(len(candTokens)-len(targetTokens))
		if score > bestScore {
			best, bestScore = cand, score
		}
	}
	if bestScore <= 0 {
		return "", false
	}
	return best, true
}

// SortedKeys returns map keys in stable order for deterministic resolution.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalize lowercases, strips stop words, and collapses whitespace.
func normalize(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	kept := fields[:0]
	for _, f := range fields {
		if stopWords[f] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// expandTokens builds the alias-expanded token set for a token list.
func expandTokens(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
		for _, alias := range aliasGroups[tok] {
			set[alias] = true
		}
	}
	return set
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
