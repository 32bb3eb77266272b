package validation

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("only CSS and JS files are allowed")
	ErrTooLarge        = errors.New("file size exceeds the upload limit")
	ErrInvalidName     = errors.New("invalid file name")
)

// MaxUploadSize is the default per-file upload limit (1 MiB).
const MaxUploadSize = 1 << 20

var fileNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}\.(css|js)$`)

// ValidateUpload checks a candidate upload before any network call.
// Checks run in order: extension, size, name pattern. Pure; no side effects.
func ValidateUpload(name string, size int64, maxSize int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".css" && ext != ".js" {
		return ErrUnsupportedType
	}

	if maxSize <= 0 {
		maxSize = MaxUploadSize
	}
	if size > maxSize {
		return ErrTooLarge
	}

	base := strings.TrimSuffix(name, filepath.Ext(name)) + ext
	if !fileNamePattern.MatchString(base) {
		return ErrInvalidName
	}

	return nil
}

// FileType returns "css" or "js" for a name that passed ValidateUpload.
func FileType(name string) string {
	if strings.ToLower(filepath.Ext(name)) == ".css" {
		return "css"
	}
	return "js"
}
