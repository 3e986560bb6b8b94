package filter

import (
	"testing"

	"github.com/sdejongh/hadidi/pkg/models"
)

func TestCompileEmpty(t *testing.T) {
	p, err := Compile(nil, []string{""})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !p.Empty() {
		t.Error("Empty() should be true without patterns")
	}
	if p.Excludes("anything.txt") {
		t.Error("empty pattern should exclude nothing")
	}

	var nilPattern *Pattern
	if nilPattern.Excludes("x") {
		t.Error("nil pattern should exclude nothing")
	}
}

func TestRegexFilter(t *testing.T) {
	tests := []struct {
		name     string
		filters  []string
		path     string
		excluded bool
	}{
		{"DotfileExcluded", []string{`\.`}, ".hidden", true},
		{"AnchoredDotfile", []string{`^\.`}, "dir/.hidden", true},
		{"VisibleKept", []string{`\.`}, "visible.txt", false},
		{"PrefixOnly", []string{"tmp"}, "a.tmp", false},
		{"PrefixMatch", []string{"tmp"}, "tmp.log", true},
		{"AppliesToBaseNameOnly", []string{"build"}, "build/main.o", false},
		{"OrCombinedFirst", []string{`.*\.pyc$`, "~"}, "mod.pyc", true},
		{"OrCombinedSecond", []string{`.*\.pyc$`, "~"}, "~notes", true},
		{"OrCombinedNone", []string{`.*\.pyc$`, "~"}, "mod.py", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.filters, nil)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if got := p.Excludes(tt.path); got != tt.excluded {
				t.Errorf("Excludes(%q) with %v = %v, want %v", tt.path, tt.filters, got, tt.excluded)
			}
		})
	}
}

func TestGlobExclude(t *testing.T) {
	tests := []struct {
		name     string
		globs    []string
		path     string
		excluded bool
	}{
		{"BaseName", []string{"*.tmp"}, "a/b/c.tmp", true},
		{"BaseNameMiss", []string{"*.tmp"}, "a/b/c.txt", false},
		{"DirPattern", []string{".git/"}, ".git/objects/ab", true},
		{"NestedDirPattern", []string{"node_modules/"}, "web/node_modules/x.js", true},
		{"DirPatternNotBaseName", []string{"cache/"}, "cache", false},
		{"PathGlob", []string{"build/*.o"}, "build/main.o", true},
		{"PathGlobWrongDir", []string{"build/*.o"}, "src/main.o", false},
		{"AnyDepth", []string{"**/cache/*"}, "a/b/cache/blob", true},
		{"AnyDepthBaseName", []string{"**/*.bak"}, "x/y/z.bak", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(nil, tt.globs)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if got := p.Excludes(tt.path); got != tt.excluded {
				t.Errorf("Excludes(%q) with %v = %v, want %v", tt.path, tt.globs, got, tt.excluded)
			}
		})
	}
}

func TestCompileInvalid(t *testing.T) {
	t.Run("BadRegex", func(t *testing.T) {
		_, err := Compile([]string{"(unclosed"}, nil)
		if err == nil {
			t.Fatal("Compile() should fail for invalid regex")
		}
		if kind := models.KindOf(err); kind != models.KindInvalidArguments {
			t.Errorf("KindOf() = %q, want %q", kind, models.KindInvalidArguments)
		}
	})

	t.Run("BadGlob", func(t *testing.T) {
		_, err := Compile(nil, []string{"[abc"})
		if err == nil {
			t.Fatal("Compile() should fail for malformed glob")
		}
		if kind := models.KindOf(err); kind != models.KindInvalidArguments {
			t.Errorf("KindOf() = %q, want %q", kind, models.KindInvalidArguments)
		}
	})
}

func TestPatternString(t *testing.T) {
	p, err := Compile([]string{"a", "b"}, []string{"*.tmp"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	want := "^(?:(a)|(b)) *.tmp"
	if p.String() != want {
		t.Errorf("String() = %q, want %q", p.String(), want)
	}
}
