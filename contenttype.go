package s3proxy

import (
	"path"
	"strings"
)

// DefaultContentType is used for keys without a recognized extension.
const DefaultContentType = "text/html; charset=utf-8"

// contentTypes is the extension table used for both classification and the
// Content-Type header. It is compiled in so resolution does not depend on the
// host's mime.types files.
var contentTypes = map[string]string{
	// documents
	".html":  "text/html; charset=utf-8",
	".htm":   "text/html; charset=utf-8",
	".xhtml": "application/xhtml+xml",
	".txt":   "text/plain; charset=utf-8",
	".md":    "text/markdown; charset=utf-8",
	".csv":   "text/csv; charset=utf-8",
	".xml":   "text/xml; charset=utf-8",
	".pdf":   "application/pdf",
	".rss":   "application/rss+xml",
	".atom":  "application/atom+xml",

	// styles, scripts and data
	".css":         "text/css; charset=utf-8",
	".js":          "text/javascript; charset=utf-8",
	".mjs":         "text/javascript; charset=utf-8",
	".json":        "application/json",
	".map":         "application/json",
	".jsonld":      "application/ld+json",
	".webmanifest": "application/manifest+json",
	".wasm":        "application/wasm",
	".yaml":        "application/yaml",
	".yml":         "application/yaml",
	".toml":        "application/toml",

	// images
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",

	// fonts
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".eot":   "application/vnd.ms-fontobject",

	// audio and video
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".ogv":  "video/ogg",
	".mov":  "video/quicktime",
	".vtt":  "text/vtt; charset=utf-8",

	// archives and binaries
	".zip": "application/zip",
	".gz":  "application/gzip",
	".tgz": "application/gzip",
	".tar": "application/x-tar",
	".bz2": "application/x-bzip2",
	".xz":  "application/x-xz",
	".7z":  "application/x-7z-compressed",
	".bin": "application/octet-stream",
	".exe": "application/octet-stream",
	".dmg": "application/octet-stream",
	".apk": "application/vnd.android.package-archive",
}

// ContentType returns the MIME type for key based on the extension of its final
// segment. Keys with no extension, or an extension missing from the table, are
// classified as DefaultContentType.
func ContentType(key string) string {
	ct, ok := lookupContentType(key)
	if !ok {
		return DefaultContentType
	}
	return ct
}

// HasKnownType reports whether the extension of key is present in the table.
func HasKnownType(key string) bool {
	_, ok := lookupContentType(key)
	return ok
}

func lookupContentType(key string) (string, bool) {
	ct, ok := contentTypes[strings.ToLower(path.Ext(key))]
	return ct, ok
}
