// Package routepath normalizes navigation targets before they reach the
// route matcher. Every path that enters the navigation pipeline passes
// through Normalize exactly once, so the matcher only ever sees a leading
// slash, collapsed separators, and no query string.
package routepath

import (
	"errors"
	"strings"
)

// Result is the outcome of normalizing a navigation target.
type Result struct {
	// Path is the normalized pathname, always starting with "/".
	Path string

	// Query is the raw query string without the leading "?".
	Query string
}

// Normalization errors.
var (
	ErrEmptyTarget    = errors.New("empty navigation target")
	ErrExternalTarget = errors.New("navigation target is an absolute URL")
	ErrBackslash      = errors.New("path contains backslash")
	ErrNullByte       = errors.New("path contains null byte")
	ErrBadEscape      = errors.New("invalid percent escape in path")
	ErrEscapesRoot    = errors.New("path escapes root via ..")
)

// Normalize canonicalizes a navigation target into a matchable pathname.
//
// Transformations:
//   - split off the query string
//   - ensure a leading slash
//   - collapse duplicate slashes
//   - drop "." segments, resolve ".." segments
//   - drop the trailing slash (except for root)
//
// Rejected inputs:
//   - absolute URLs ("http://", "https://", protocol-relative "//")
//   - backslashes and NUL bytes (literal or encoded)
//   - malformed percent escapes
//   - ".." sequences that would climb above root
func Normalize(target string) (Result, error) {
	if target == "" {
		return Result{}, ErrEmptyTarget
	}

	// In-app navigation is relative-only; full URLs belong to the browser.
	if strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "//") {
		return Result{}, ErrExternalTarget
	}

	path, query, _ := strings.Cut(target, "?")

	if strings.Contains(path, "\\") {
		return Result{}, ErrBackslash
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Result{}, ErrNullByte
	}
	if strings.Contains(path, "%") {
		if err := checkEscapes(path); err != nil {
			return Result{}, err
		}
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}

	var kept []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(kept) == 0 {
				return Result{}, ErrEscapesRoot
			}
			kept = kept[:len(kept)-1]
		default:
			kept = append(kept, seg)
		}
	}

	path = "/" + strings.Join(kept, "/")

	return Result{Path: path, Query: query}, nil
}

// String rebuilds the normalized target, reattaching the query string.
func (r Result) String() string {
	if r.Query == "" {
		return r.Path
	}
	return r.Path + "?" + r.Query
}

// checkEscapes verifies that every "%" starts a two-hex-digit escape.
func checkEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
			return ErrBadEscape
		}
		i += 2
	}
	return nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
