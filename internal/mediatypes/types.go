package mediatypes

import (
	"mime"
	"path"
	"strings"
)

// Kind is the preview category of a directory entry.
type Kind string

const (
	// KindDirectory represents a directory.
	KindDirectory Kind = "directory"
	// KindImage represents a file with an image/* content type.
	KindImage Kind = "image"
	// KindVideo represents a file with a video/* content type.
	KindVideo Kind = "video"
	// KindOther represents anything else, including unknown types.
	KindOther Kind = "other"
)

// Label is the value clients see in listings and preview descriptors.
// Directories are "dir" and other files are "file".
func (k Kind) Label() string {
	switch k {
	case KindDirectory:
		return "dir"
	case KindImage, KindVideo:
		return string(k)
	default:
		return "file"
	}
}

// MimeTypes maps lower-cased file extensions to content types. It takes
// precedence over the platform MIME table, whose contents vary by host.
var MimeTypes = map[string]string{
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",
	".avif": "image/avif",

	// Videos
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".mts":  "video/mp2t",
	".m2ts": "video/mp2t",

	// Common documents, so listings don't depend on /etc/mime.types
	".txt":  "text/plain",
	".md":   "text/markdown",
	".html": "text/html",
	".json": "application/json",
	".pdf":  "application/pdf",
	".zip":  "application/zip",

	// Source code. Many hosts map .ts to video/mp2t, but in a browsed tree
	// it is far more often TypeScript.
	".ts":  "text/plain",
	".tsx": "text/plain",
}

// ContentType returns the content type inferred from name's extension, or ""
// when nothing is known about it. Parameters such as charset are stripped.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return ""
	}
	if ct, ok := MimeTypes[ext]; ok {
		return ct
	}
	ct := mime.TypeByExtension(ext)
	if ct == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
		return mediaType
	}
	return ct
}

// KindOf maps a content type to a Kind.
func KindOf(contentType string) Kind {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage
	case strings.HasPrefix(contentType, "video/"):
		return KindVideo
	default:
		return KindOther
	}
}

// Classify returns the preview Kind of a regular file from its name alone.
func Classify(name string) Kind {
	return KindOf(ContentType(name))
}
