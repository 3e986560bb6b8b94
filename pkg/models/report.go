package models

import (
	"time"
)

// Report represents the results of comparing two trees
type Report struct {
	// ID identifies the run in logs and written reports
	ID        string
	LeftRoot  string
	RightRoot string
	Algorithm string
	// AlgorithmLabel is the algorithm name as the user typed it
	AlgorithmLabel string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Per-tree scan statistics
	LeftStats  ScanStats
	RightStats ScanStats

	Result *ComparisonResult

	// Digest matches that failed byte-by-byte verification
	Mismatches []Mismatch

	// Overall status
	Status Status
}

// ScanStats holds metrics collected while scanning one tree
type ScanStats struct {
	FilesHashed   int   `json:"files_hashed"`
	BytesHashed   int64 `json:"bytes_hashed"`
	FilesFiltered int   `json:"files_filtered"`
	// Symlinks, devices, sockets and pipes
	EntriesSkipped int `json:"entries_skipped"`
	DirsScanned    int `json:"dirs_scanned"`
	// Files whose digest was already mapped to another path of the same tree
	Collisions int `json:"collisions"`
}

// Mismatch is a digest match whose files turned out to differ
type Mismatch struct {
	Hash   string `json:"hash"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	Reason string `json:"reason"`
}

// Status represents the overall result of a comparison
type Status string

const (
	// StatusIdentical indicates both trees hold the same set of contents
	StatusIdentical Status = "identical"
	// StatusDifferent indicates at least one tree holds content the other lacks
	StatusDifferent Status = "different"
)

// StatusOf derives the status from a comparison result
func StatusOf(result *ComparisonResult) Status {
	if result != nil && result.HasDifferences() {
		return StatusDifferent
	}
	return StatusIdentical
}

// ExitCode returns the exit code used in quiet mode
func (s Status) ExitCode() int {
	switch s {
	case StatusIdentical:
		return 0
	default:
		return 1
	}
}
