package models

import "sort"

// DigestMap maps a lowercase hex content digest to the path of the file
// that produced it. A tree scan produces one DigestMap; when two files in the
// same tree share a digest only the last one scanned is kept.
type DigestMap map[string]string

// DigestEntry is a single digest/path association
type DigestEntry struct {
	Hash string `json:"hash"`
	Path string `json:"path"`
}

// Entries returns the map contents ordered by path, then digest
func (m DigestMap) Entries() []DigestEntry {
	entries := make([]DigestEntry, 0, len(m))
	for h, p := range m {
		entries = append(entries, DigestEntry{Hash: h, Path: p})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Path != entries[j].Path {
			return entries[i].Path < entries[j].Path
		}
		return entries[i].Hash < entries[j].Hash
	})
	return entries
}

// PathPair holds the left and right paths of two files with identical content
type PathPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// SameEntry is a digest shared by both trees
type SameEntry struct {
	Hash  string `json:"hash"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

// ComparisonResult partitions the digests of two trees into three buckets.
// Every digest of the left map ends up in exactly one of Same or OnlyLeft,
// and every digest of the right map in exactly one of Same or OnlyRight.
type ComparisonResult struct {
	// Same holds digests present in both trees
	Same map[string]PathPair

	// OnlyLeft holds digests found only in the left tree
	OnlyLeft DigestMap

	// OnlyRight holds digests found only in the right tree
	OnlyRight DigestMap
}

// HasDifferences reports whether either tree holds content the other lacks
func (r *ComparisonResult) HasDifferences() bool {
	return len(r.OnlyLeft)+len(r.OnlyRight) > 0
}

// SameEntries returns the matched pairs ordered by left path
func (r *ComparisonResult) SameEntries() []SameEntry {
	entries := make([]SameEntry, 0, len(r.Same))
	for h, pair := range r.Same {
		entries = append(entries, SameEntry{Hash: h, Left: pair.Left, Right: pair.Right})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Left != entries[j].Left {
			return entries[i].Left < entries[j].Left
		}
		return entries[i].Hash < entries[j].Hash
	})
	return entries
}
