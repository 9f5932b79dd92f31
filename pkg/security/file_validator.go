package security

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxUploadSize is the largest attachment accepted, in bytes.
const MaxUploadSize int64 = 5 << 20

// PolicyError is returned when a file is rejected by the upload policy.
// The message is safe to show to the client.
type PolicyError struct {
	Message string
}

func (e *PolicyError) Error() string {
	return e.Message
}

func policyError(format string, args ...any) *PolicyError {
	return &PolicyError{Message: fmt.Sprintf(format, args...)}
}

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string // only set when content sniffing ran
	Error        string
}

// Allowed file extensions (strict whitelist)
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Declared content types accepted from the multipart header
var allowedMIMETypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// contentFamilies lists, per extension, the sniffed types the bytes may resolve to.
// Parents in the mimetype tree are walked, so a DOCX seen as plain zip still matches.
var contentFamilies = map[string][]string{
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword", "application/x-ole-storage"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	".txt":  {"text/plain"},
	".png":  {"image/png"},
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
}

// ValidateFile applies the size, extension and declared-type checks in that order.
func ValidateFile(filename string, size int64, declaredMIME string) FileValidationResult {
	ext := strings.ToLower(filepath.Ext(filename))
	result := FileValidationResult{Extension: ext}

	if size > MaxUploadSize {
		result.Error = fmt.Sprintf("File size too large. Maximum allowed: %.1fMB", float64(MaxUploadSize)/(1<<20))
		return result
	}
	if !allowedExtensions[ext] {
		result.Error = "File type not allowed. Allowed types: " + strings.Join(GetAllowedExtensions(), ", ")
		return result
	}
	if !allowedMIMETypes[normalizeMIME(declaredMIME)] {
		result.Error = "MIME type not allowed: " + declaredMIME
		return result
	}

	result.Valid = true
	return result
}

// VerifyContent sniffs data and checks it belongs to the extension's family.
func VerifyContent(ext string, data []byte) FileValidationResult {
	ext = strings.ToLower(ext)
	detected := mimetype.Detect(data)
	result := FileValidationResult{Extension: ext, DetectedMIME: detected.String()}

	for m := detected; m != nil; m = m.Parent() {
		for _, want := range contentFamilies[ext] {
			if m.Is(want) {
				result.Valid = true
				return result
			}
		}
	}
	result.Error = fmt.Sprintf("file content does not match extension %s (detected %s)", ext, detected.String())
	return result
}

func normalizeMIME(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// GetAllowedExtensions returns the sorted extension whitelist for error messages
func GetAllowedExtensions() []string {
	extensions := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}
