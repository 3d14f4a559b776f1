package util

import (
	"os"
	"path/filepath"
	"strings"
)

// Leading articles moved to a suffix when computing sort names.
// Order matters: prefixes are tried first to last.
var namePrefixes = []string{"the ", "los ", "la ", "el "}

// SplitNameByPrefix splits a name into (rest, prefix) when it starts with a
// known article, preserving the original casing. The prefix is returned
// without its trailing space; it is empty when no article matched.
func SplitNameByPrefix(name string) (string, string) {
	lower := strings.ToLower(name)
	for _, prefix := range namePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return name[len(prefix):], strings.TrimRight(name[:len(prefix)], " ")
		}
	}
	return name, ""
}

// SortName computes the form used for alphabetic grouping:
// "The Roots" -> "Roots, The". Names without a leading article are returned
// unchanged.
func SortName(name string) string {
	rest, prefix := SplitNameByPrefix(name)
	if prefix == "" {
		return name
	}
	return rest + ", " + prefix
}

// MostCommonItem returns the most frequent non-empty string in items, or the
// first item when all are unique. Empty when no non-empty items exist.
func MostCommonItem(items []string) string {
	counts := make(map[string]int)
	best := ""
	for _, item := range items {
		if item == "" {
			continue
		}
		counts[item]++
		if best == "" || counts[item] > counts[best] {
			best = item
		}
	}
	return best
}

// CommonDirectoryPrefix returns the longest common directory shared by all
// paths, without a trailing separator.
func CommonDirectoryPrefix(paths ...string) string {
	if len(paths) == 0 {
		return ""
	}
	prefix := paths[0]
	for _, p := range paths[1:] {
		for !strings.HasPrefix(p, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	if i := strings.LastIndex(prefix, string(os.PathSeparator)); i >= 0 {
		return prefix[:i]
	}
	return ""
}

// PathHint returns the last two path components of a directory, useful as a
// short human hint in prompts.
func PathHint(path string) string {
	dir, last := filepath.Split(filepath.Clean(path))
	return filepath.Join(filepath.Base(filepath.Clean(dir)), last)
}
