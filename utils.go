package s3proxy

import (
	"strings"
	"unicode/utf8"
)

// IsValidKey validates that a string can be used as an object key.
// It checks that the key:
//   - is not empty
//   - is relative (does not start with "/")
//   - does not end with "/"
//   - has no empty, "." or ".." segments
//   - is valid UTF-8
//   - does not contain null bytes, control characters (< 0x20) or DEL (0x7f)
//
// Returns true if the key is valid, false otherwise.
func IsValidKey(k string) bool {
	if k == "" {
		return false
	}

	if k[0] == '/' || strings.HasSuffix(k, "/") {
		return false
	}

	if !utf8.ValidString(k) {
		return false
	}

	for _, seg := range strings.Split(k, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}

	for _, r := range k {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}

	return true
}
