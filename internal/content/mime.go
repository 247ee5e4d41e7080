package content

import (
	"bytes"
	"mime"
	"strings"
)

var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/svg":       ".svg",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// ExtensionForContentType returns the file extension for an exact content
// type, or "" when the type is unknown or empty.
func ExtensionForContentType(contentType string) string {
	return extensions[contentType]
}

var signatures = [][]byte{
	{0xFF, 0xD8, 0xFF},       // JPEG
	{0x89, 0x50, 0x4E, 0x47}, // PNG
	{0x47, 0x49, 0x46},       // GIF
	[]byte("<?xml"),
	[]byte("<svg"),
}

// IsImageBySignature reports whether b starts with a JPEG, PNG or GIF
// marker, or with SVG/XML text.
func IsImageBySignature(b []byte) bool {
	for _, sig := range signatures {
		if bytes.HasPrefix(b, sig) {
			return true
		}
	}
	return false
}

// IsHTML reports whether a Content-Type header value names an HTML document.
func IsHTML(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "text/html")
	}
	return mt == "text/html"
}
