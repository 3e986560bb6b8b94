package filter

import (
	"path/filepath"
	"strings"
)

// matchExclude checks a relative file path against glob patterns.
// Patterns support:
//   - base name globs: *.tmp, *.log
//   - directory patterns: .git/, node_modules/ (any file below such a directory)
//   - path globs: build/*.o, matched against the whole relative path
//   - any-depth patterns: **/cache/*
func matchExclude(relativePath string, patterns []string) bool {
	normalizedPath := filepath.ToSlash(relativePath)
	baseName := filepath.Base(relativePath)
	dirs := strings.Split(normalizedPath, "/")
	dirs = dirs[:len(dirs)-1]

	for _, pattern := range patterns {
		normalizedPattern := filepath.ToSlash(pattern)

		if dirPattern, ok := strings.CutSuffix(normalizedPattern, "/"); ok {
			for _, dir := range dirs {
				if matchGlob(dir, dirPattern) {
					return true
				}
			}
			continue
		}

		if suffix, ok := strings.CutPrefix(normalizedPattern, "**/"); ok {
			if matchGlob(baseName, suffix) || matchTail(normalizedPath, suffix) {
				return true
			}
			continue
		}

		if strings.Contains(normalizedPattern, "/") {
			if matchGlob(normalizedPath, normalizedPattern) {
				return true
			}
			continue
		}

		if matchGlob(baseName, normalizedPattern) {
			return true
		}
	}

	return false
}

// matchGlob performs glob matching, treating malformed patterns as non-matching
func matchGlob(name, pattern string) bool {
	matched, _ := filepath.Match(pattern, name)
	return matched
}

// matchTail checks whether any trailing run of path components matches pattern
func matchTail(path, pattern string) bool {
	parts := strings.Split(path, "/")
	for i := range parts {
		if matchGlob(strings.Join(parts[i:], "/"), pattern) {
			return true
		}
	}
	return false
}
