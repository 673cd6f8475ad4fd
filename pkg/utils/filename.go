package utils

import (
	"path/filepath"
	"strings"
)

const maxFilenameLength = 200

var allowedVideoExtensions = map[string]bool{
	"mp4": true,
	"avi": true,
	"mov": true,
	"mkv": true,
}

// AllowedVideoFile reports whether name carries one of the accepted video extensions.
func AllowedVideoFile(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" || strings.TrimSuffix(name, "."+ext) == "" {
		return false
	}
	return allowedVideoExtensions[strings.ToLower(ext)]
}

// SanitizeFilename reduces a client supplied name to a safe base name made of
// ASCII letters, digits, dots, dashes and underscores.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}

	result := strings.TrimLeft(sb.String(), "._")
	if result == "" || strings.Trim(result, "._-") == "" {
		return "video"
	}
	if len(result) > maxFilenameLength {
		ext := filepath.Ext(result)
		result = result[:maxFilenameLength-len(ext)] + ext
	}
	return result
}
