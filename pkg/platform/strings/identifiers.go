// Package strings canonicalises catalog identifiers such as "CMPSC 131".
package strings

import "strings"

// NormalizeIdentifier upper-cases v and collapses whitespace runs, so
// "cmpsc  131 " and "CMPSC 131" compare equal. Blank input yields "".
func NormalizeIdentifier(v string) string {
	return strings.Join(strings.Fields(strings.ToUpper(v)), " ")
}

// DedupeIdentifiers normalises ids, dropping blanks and repeats while
// keeping first-seen order. A nil or empty input is returned as is.
func DedupeIdentifiers(ids []string) []string {
	if len(ids) == 0 {
		return ids
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := NormalizeIdentifier(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
