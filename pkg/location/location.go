// Package location validates and canonicalizes database location arguments.
//
// A location may be given as a string path, a byte buffer holding a path, a
// *url.URL using the file scheme, or the in-memory sentinel. All accepted
// shapes normalize to the same canonical absolute path for the same logical
// file, so the opening code never sees which shape the caller used.
package location

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// InMemory is the engine's token for a private in-memory database.
const InMemory = ":memory:"

// Resolve returns InMemory or the canonical absolute path for loc. Relative
// paths resolve against the current working directory at call time. Any
// malformed or unsupported input produces an error; callers surface it as an
// invalid-path failure.
func Resolve(loc any) (string, error) {
	switch v := loc.(type) {
	case string:
		return resolveString(v)
	case []byte:
		return resolveString(string(v))
	case *url.URL:
		if v == nil {
			return "", fmt.Errorf("the location argument must not be a nil URL")
		}
		return resolveURL(v)
	default:
		return "", fmt.Errorf("the location argument must be a string, []byte, or *url.URL without null bytes, got %T", loc)
	}
}

func resolveString(path string) (string, error) {
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("the location argument contains null bytes")
	}
	if path == InMemory {
		return InMemory, nil
	}
	if path == "" {
		return "", fmt.Errorf("the location argument must not be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving location %q: %w", path, err)
	}
	return abs, nil
}

func resolveURL(u *url.URL) (string, error) {
	if strings.ContainsRune(u.String(), 0) {
		return "", fmt.Errorf("the location argument contains null bytes")
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("the location URL must use the file: scheme, got %q", u.Scheme)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("the location URL must not name a remote host, got %q", u.Host)
	}
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	if path == "" {
		return "", fmt.Errorf("the location URL has an empty path")
	}
	// url.URL.Path is already percent-decoded; re-check for smuggled nulls
	// and reject traversal in URL-shaped input, which has no business
	// escaping its directory.
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("the location argument contains null bytes after URL decoding")
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", fmt.Errorf("the location URL contains path traversal sequences")
		}
	}
	return resolveString(path)
}
