package s3proxy

import (
	"fmt"
	"path"
	"strings"
)

// ResolveKey turns a raw request path into the object key it addresses.
//
// The path is cleaned lexically against a virtual root: redundant separators are
// collapsed and "." / ".." segments are resolved without ever climbing above the
// root. The empty path resolves to IndexDocument. A path whose last segment has no
// recognized extension is page-like and resolves to its index document; any other
// path is used as-is without the leading separator.
//
// ResolveKey returns ErrRejected when the cleaned path is not a valid key, for
// example when it holds invalid UTF-8 or control characters.
func ResolveKey(rawPath string) (string, error) {
	cleaned := strings.TrimPrefix(path.Clean("/"+rawPath), "/")
	if cleaned == "" {
		return IndexDocument, nil
	}

	key := cleaned
	if !HasKnownType(cleaned) {
		key = cleaned + "/" + IndexDocument
	}

	if !IsValidKey(key) {
		return "", fmt.Errorf("resolve %q: %w", rawPath, ErrRejected)
	}

	return key, nil
}
