package content

import "testing"

func TestExtensionForContentType(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"image/gif":       ".gif",
		"image/svg":       ".svg",
		"image/webp":      ".webp",
		"application/pdf": ".pdf",
		"text/plain":      "",
		"":                "",
		"image/png; x=1":  "",
	}
	for in, want := range tests {
		if got := ExtensionForContentType(in); got != want {
			t.Errorf("ExtensionForContentType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsImageBySignature(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want bool
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, true},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}, true},
		{"gif", []byte("GIF89a"), true},
		{"xml svg", []byte(`<?xml version="1.0"?><svg/>`), true},
		{"inline svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), true},
		{"text", []byte("Hello World"), false},
		{"short", []byte{0xFF, 0xD8}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		if got := IsImageBySignature(tt.in); got != tt.want {
			t.Errorf("%s: IsImageBySignature = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsHTML(t *testing.T) {
	tests := map[string]bool{
		"text/html":                 true,
		"text/html; charset=utf-8":  true,
		"TEXT/HTML":                 true,
		"image/png":                 false,
		"application/xhtml+xml":     false,
		"":                          false,
	}
	for in, want := range tests {
		if got := IsHTML(in); got != want {
			t.Errorf("IsHTML(%q) = %v, want %v", in, got, want)
		}
	}
}
