package vfs

import (
	"testing"
)

// TestParseValid verifies mount/relative splitting and normalization of the
// relative part.
func TestParseValid(t *testing.T) {
	cases := []struct {
		in    string
		mount string
		rel   string
	}{
		{"assets:/tex/sprite.png", "assets", "tex/sprite.png"},
		{"assets:/", "assets", ""},
		{"assets:", "assets", ""},
		{"assets:/tex//a.png", "assets", "tex/a.png"},
		{"assets:/./tex/./a.png", "assets", "tex/a.png"},
		{"assets:/tex/../a.png", "assets", "a.png"},
		{"assets:\\tex\\a.png", "assets", "tex/a.png"},
		{"assets:/tex/a.png/", "assets", "tex/a.png"},
	}
	for _, tc := range cases {
		mount, rel, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error %v", tc.in, err)
		}
		if mount != tc.mount || rel != tc.rel {
			t.Fatalf("Parse(%q) = (%q, %q), want (%q, %q)", tc.in, mount, rel, tc.mount, tc.rel)
		}
	}
}

// TestParseInvalid covers the InvalidPath edge cases: empty input, missing
// separator, over-long and malformed mount names.
func TestParseInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"no-separator/path.png",
		":/leading-colon",
		"wayTooLongMountName1:/a.png",
		"bad/mount:/a.png",
	} {
		if _, _, err := Parse(in); err == nil || err.Code != CodeInvalidPath {
			t.Fatalf("Parse(%q): want InvalidPath, got %v", in, err)
		}
	}
}

// TestNormalizeNeverEscapesRoot is the security property: no input may name
// anything above the mount root. Excess ".." segments clamp.
func TestNormalizeNeverEscapesRoot(t *testing.T) {
	got, err := Normalize("assets:/tex/../../../../etc")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "assets:/etc" {
		t.Fatalf("Normalize clamped to %q, want %q", got, "assets:/etc")
	}

	got, err = Normalize("assets:/../../..")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "assets:/" {
		t.Fatalf("Normalize clamped to %q, want %q", got, "assets:/")
	}
}

func TestCombine(t *testing.T) {
	cases := []struct{ base, sub, want string }{
		{"assets:/tex", "a.png", "assets:/tex/a.png"},
		{"assets:/tex/", "/a.png", "assets:/tex/a.png"},
		{"assets:/", "a.png", "assets:/a.png"},
		{"assets:/tex", "", "assets:/tex"},
	}
	for _, tc := range cases {
		if got := Combine(tc.base, tc.sub); got != tc.want {
			t.Fatalf("Combine(%q, %q) = %q, want %q", tc.base, tc.sub, got, tc.want)
		}
	}
}

func TestEqualVariants(t *testing.T) {
	if !Equal("assets:/tex/../a.png", "assets:/a.png") {
		t.Fatalf("Equal should normalize before comparing")
	}
	if Equal("assets:/A.png", "assets:/a.png") {
		t.Fatalf("Equal must be case-sensitive")
	}
	if !EqualFold("assets:/A.png", "assets:/a.png") {
		t.Fatalf("EqualFold should fold the relative part")
	}
	if EqualFold("Assets:/a.png", "assets:/a.png") {
		t.Fatalf("EqualFold must keep mount names case-sensitive")
	}
	if Equal("bad path", "also bad") {
		t.Fatalf("unparseable paths are never equal")
	}
}
