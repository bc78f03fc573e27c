package model

import (
	"path/filepath"
	"strings"
)

// DefaultMIMEType is used when nothing better is known about a file.
const DefaultMIMEType = "application/octet-stream"

var extMIME = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

// MIMEFromName guesses an image MIME type from the file extension.
func MIMEFromName(name string) string {
	if t, ok := extMIME[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return DefaultMIMEType
}

// IsSupportedImage reports whether the upload area accepts the extension.
func IsSupportedImage(name string) bool {
	_, ok := extMIME[strings.ToLower(filepath.Ext(name))]
	return ok
}
