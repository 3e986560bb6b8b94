// Package compare matches the digest maps of two trees and drives a full
// comparison run.
package compare

import (
	"github.com/sdejongh/hadidi/pkg/models"
)

// Diff partitions the digests of two trees. A digest present in both maps
// becomes a same pair; the rest land in OnlyLeft or OnlyRight. Neither input
// map is modified and nil maps are treated as empty.
func Diff(left, right models.DigestMap) *models.ComparisonResult {
	remaining := make(models.DigestMap, len(right))
	for h, p := range right {
		remaining[h] = p
	}

	result := &models.ComparisonResult{
		Same:     make(map[string]models.PathPair),
		OnlyLeft: make(models.DigestMap),
	}

	for h, leftPath := range left {
		if rightPath, ok := remaining[h]; ok {
			result.Same[h] = models.PathPair{Left: leftPath, Right: rightPath}
			delete(remaining, h)
			continue
		}
		result.OnlyLeft[h] = leftPath
	}

	result.OnlyRight = remaining
	return result
}
