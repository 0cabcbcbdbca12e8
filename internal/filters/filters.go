// Package filters implements the exclusion-list predicates applied
// during event classification. A predicate returns true when the value
// PASSES, i.e. is not on the exclusion list.
package filters

import (
	"strings"
)

// Text reports whether value passes the exclusion list. Matching is
// case-insensitive; entries may use '*' wildcards (path.Match syntax).
func Text(value string, exclusions []string) bool {
	return !matches(value, exclusions)
}

// Repo reports whether the repository name ("owner/name") passes the
// exclusion list. Entries match the full name or just the short name.
func Repo(name string, exclusions []string) bool {
	if matches(name, exclusions) {
		return false
	}

	// Also try the short name so "my-repo" excludes "owner/my-repo".
	if _, short, found := strings.Cut(name, "/"); found && matches(short, exclusions) {
		return false
	}

	return true
}

// matches reports whether value matches any exclusion entry.
func matches(value string, exclusions []string) bool {
	lowered := strings.ToLower(strings.TrimSpace(value))
	for _, entry := range exclusions {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "*") {
			if wildcardMatch(entry, lowered) {
				return true
			}
			continue
		}

		if entry == lowered {
			return true
		}
	}
	return false
}

// wildcardMatch reports whether value matches pattern, where '*'
// matches any run of characters and everything else is literal.
// Logins commonly contain '[' and ']' (e.g. "dependabot[bot]"), so no
// character-class syntax is supported.
func wildcardMatch(pattern, value string) bool {
	segments := strings.Split(pattern, "*")

	if !strings.HasPrefix(value, segments[0]) {
		return false
	}
	value = value[len(segments[0]):]

	for _, segment := range segments[1 : len(segments)-1] {
		idx := strings.Index(value, segment)
		if idx < 0 {
			return false
		}
		value = value[idx+len(segment):]
	}

	return strings.HasSuffix(value, segments[len(segments)-1])
}
