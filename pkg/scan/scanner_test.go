package scan

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdejongh/hadidi/pkg/digest"
	"github.com/sdejongh/hadidi/pkg/filter"
	"github.com/sdejongh/hadidi/pkg/logging"
	"github.com/sdejongh/hadidi/pkg/models"
	"github.com/sdejongh/hadidi/pkg/storage"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
	return root
}

func newScanner(t *testing.T, root string, opts ...Option) *Scanner {
	t.Helper()
	backend, err := storage.NewLocal(root)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	alg, err := digest.Lookup("md5")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	return New(backend, digest.NewHasher(alg, 0), opts...)
}

func TestScan(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt":       "hello",
		"sub/b.txt":   "world",
		"sub/deep/c":  "",
		"sub/.hidden": "secret",
	})

	s := newScanner(t, root, WithDisplayRoot("left"))
	got, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := models.DigestMap{
		"5d41402abc4b2a76b9719d911017c592": filepath.Join("left", "a.txt"),
		"7d793037a0760186574b0282f2f435e7": filepath.Join("left", "sub", "b.txt"),
		"d41d8cd98f00b204e9800998ecf8427e": filepath.Join("left", "sub", "deep", "c"),
		"5ebe2294ecd0e0f08eab7690d2a6ee69": filepath.Join("left", "sub", ".hidden"),
	}
	if len(got) != len(want) {
		t.Fatalf("Scan() returned %d entries, want %d: %v", len(got), len(want), got)
	}
	for h, p := range want {
		if got[h] != p {
			t.Errorf("digest %s -> %q, want %q", h, got[h], p)
		}
	}

	stats := s.Stats()
	if stats.FilesHashed != 4 {
		t.Errorf("FilesHashed = %d, want 4", stats.FilesHashed)
	}
	if stats.BytesHashed != int64(len("hello")+len("world")+len("secret")) {
		t.Errorf("BytesHashed = %d", stats.BytesHashed)
	}
	if stats.DirsScanned != 2 {
		t.Errorf("DirsScanned = %d, want 2", stats.DirsScanned)
	}
}

func TestScanDefaultDisplayRoot(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "hello"})
	s := newScanner(t, root)

	got, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	for _, p := range got {
		if !strings.HasSuffix(p, "a.txt") || !filepath.IsAbs(p) {
			t.Errorf("path = %q, want absolute path ending in a.txt", p)
		}
	}
}

func TestScanDisplayRootAsTyped(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "hello"})
	sep := string(filepath.Separator)

	tests := []struct {
		name        string
		displayRoot string
		want        string
	}{
		{"Plain", "left", "left" + sep + "a.txt"},
		{"DotPrefix", "." + sep + "left", "." + sep + "left" + sep + "a.txt"},
		{"TrailingSeparator", "." + sep + "left" + sep, "." + sep + "left" + sep + "a.txt"},
		{"Uncleaned", "x" + sep + ".." + sep + "left", "x" + sep + ".." + sep + "left" + sep + "a.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScanner(t, root, WithDisplayRoot(tt.displayRoot))
			got, err := s.Scan(context.Background())
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if p := got["5d41402abc4b2a76b9719d911017c592"]; p != tt.want {
				t.Errorf("path = %q, want %q", p, tt.want)
			}
		})
	}
}

func TestScanFilter(t *testing.T) {
	root := writeTree(t, map[string]string{
		"keep.txt":      "keep",
		".hidden":       "hidden",
		"sub/.dotfile":  "dot",
		"build/out.tmp": "tmp",
	})

	pattern, err := filter.Compile([]string{`\.`}, []string{"*.tmp"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	s := newScanner(t, root, WithFilter(pattern), WithDisplayRoot("r"))
	got, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("Scan() returned %v, want only keep.txt", got)
	}
	for _, p := range got {
		if p != filepath.Join("r", "keep.txt") {
			t.Errorf("unexpected path %q", p)
		}
	}
	if s.Stats().FilesFiltered != 3 {
		t.Errorf("FilesFiltered = %d, want 3", s.Stats().FilesFiltered)
	}
}

func TestScanCollisionLastWins(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a/one.txt": "same",
		"b/two.txt": "same",
	})

	var logs bytes.Buffer
	logger := logging.NewWriterLogger(&logs, logging.FormatText, logging.WarnLevel)
	s := newScanner(t, root, WithLogger(logger), WithDisplayRoot("t"))

	got, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Scan() returned %d entries, want 1", len(got))
	}
	// WalkDir visits in lexical order, so b/two.txt is seen last
	for _, p := range got {
		if p != filepath.Join("t", "b", "two.txt") {
			t.Errorf("path = %q, want the last scanned file", p)
		}
	}
	if s.Stats().Collisions != 1 {
		t.Errorf("Collisions = %d, want 1", s.Stats().Collisions)
	}
	if !strings.Contains(logs.String(), "[WARN]") {
		t.Errorf("collision should be logged at warn level, got %q", logs.String())
	}
}

func TestScanSkipsSymlinks(t *testing.T) {
	root := writeTree(t, map[string]string{"target.txt": "data"})
	if err := os.Symlink(filepath.Join(root, "target.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	outside := writeTree(t, map[string]string{"x.txt": "outside"})
	if err := os.Symlink(outside, filepath.Join(root, "linkdir")); err != nil {
		t.Fatalf("failed to create dir symlink: %v", err)
	}

	s := newScanner(t, root)
	got, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Scan() returned %v, want only target.txt", got)
	}
	if s.Stats().EntriesSkipped != 2 {
		t.Errorf("EntriesSkipped = %d, want 2", s.Stats().EntriesSkipped)
	}
}

func TestScanUnreadableFile(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := writeTree(t, map[string]string{"locked.txt": "x"})
	if err := os.Chmod(filepath.Join(root, "locked.txt"), 0000); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	t.Cleanup(func() { os.Chmod(filepath.Join(root, "locked.txt"), 0644) })

	s := newScanner(t, root)
	got, err := s.Scan(context.Background())
	if err == nil {
		t.Fatal("Scan() should fail on unreadable file")
	}
	if got != nil {
		t.Error("Scan() should not return a partial map")
	}
	if kind := models.KindOf(err); kind != models.KindIO {
		t.Errorf("KindOf() = %q, want %q", kind, models.KindIO)
	}
}

func TestScanCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a": "1", "b": "2"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newScanner(t, root).Scan(ctx); err == nil {
		t.Error("Scan() should fail with cancelled context")
	}
}

type recordingProgress struct {
	label string
	total int
	steps []string
	ended bool
}

func (p *recordingProgress) Begin(label string, total int) {
	p.label = label
	p.total = total
}

func (p *recordingProgress) Step(path string) {
	p.steps = append(p.steps, path)
}

func (p *recordingProgress) End() {
	p.ended = true
}

func TestScanProgress(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt":     "a",
		"sub/b.txt": "b",
	})

	progress := &recordingProgress{}
	s := newScanner(t, root, WithProgress(progress), WithDisplayRoot("p"))
	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if progress.label != "p" {
		t.Errorf("label = %q, want p", progress.label)
	}
	if progress.total != 2 {
		t.Errorf("total = %d, want 2", progress.total)
	}
	if len(progress.steps) != 2 {
		t.Errorf("steps = %v, want one per file", progress.steps)
	}
	if !progress.ended {
		t.Error("End() was not called")
	}
}
