package vfs

import (
	"strings"
)

// MaxMountNameLen caps mount names so a logical path prefix stays short and
// cheap to compare.
const MaxMountNameLen = 15

// Parse splits a logical path of the form "mount:/relative/path" into its
// mount name and relative part. The relative part is normalized; the mount
// name is returned verbatim (case-sensitive).
func Parse(path string) (mount, rel string, err *Error) {
	if path == "" {
		return "", "", NewError(CodeInvalidPath, "empty path")
	}
	i := strings.IndexByte(path, ':')
	if i <= 0 {
		return "", "", NewError(CodeInvalidPath, path)
	}
	mount = path[:i]
	if len(mount) > MaxMountNameLen || strings.ContainsAny(mount, "/\\") {
		return "", "", NewError(CodeInvalidPath, path)
	}
	rel, err = normalizeRel(path[i+1:])
	if err != nil {
		return "", "", NewError(CodeInvalidPath, path)
	}
	return mount, rel, nil
}

// Normalize returns the canonical form of a logical path: backslashes become
// forward slashes, "." segments vanish, ".." segments collapse and clamp at
// the mount root. Clamping rather than erroring keeps the security property:
// no input can name anything above the mount root.
func Normalize(path string) (string, *Error) {
	mount, rel, err := Parse(path)
	if err != nil {
		return "", err
	}
	return mount + ":/" + rel, nil
}

// normalizeRel canonicalizes the part after "mount:". Returns a clean
// relative path with no leading or trailing slash ("" means the mount root).
func normalizeRel(p string) (string, *Error) {
	p = strings.ReplaceAll(p, "\\", "/")
	segs := strings.Split(p, "/")
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		switch s {
		case "", ".":
		case "..":
			// clamp at the mount root
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, s)
		}
	}
	return strings.Join(out, "/"), nil
}

// Combine joins a base logical path and a sub path with exactly one slash.
// The result is not normalized; pass it through Normalize or Resolve.
func Combine(base, sub string) string {
	base = strings.TrimRight(base, "/\\")
	sub = strings.TrimLeft(sub, "/\\")
	if base == "" {
		return sub
	}
	if sub == "" {
		return base
	}
	return base + "/" + sub
}

// Equal reports case-sensitive path equality after normalization. Paths that
// fail to parse are never equal to anything.
func Equal(a, b string) bool {
	na, ea := Normalize(a)
	nb, eb := Normalize(b)
	return ea == nil && eb == nil && na == nb
}

// EqualFold is Equal with ASCII case folding on the relative part. Mount
// names stay case-sensitive.
func EqualFold(a, b string) bool {
	ma, ra, ea := Parse(a)
	mb, rb, eb := Parse(b)
	return ea == nil && eb == nil && ma == mb && strings.EqualFold(ra, rb)
}
