package security

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const maxFilenameLength = 255

var invalidFilenameChars = `<>:"/\|?*`

var reservedNames = buildReservedNames()

func buildReservedNames() map[string]bool {
	names := []string{"CON", "PRN", "AUX", "NUL"}
	for i := 1; i <= 9; i++ {
		names = append(names, fmt.Sprintf("COM%d", i), fmt.Sprintf("LPT%d", i))
	}
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

var dangerousContentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)vbscript:`),
	regexp.MustCompile(`(?i)onload=`),
	regexp.MustCompile(`(?i)onerror=`),
}

// ValidateFilename checks a filename for illegal characters, reserved
// names, and length, returning the trimmed name.
func ValidateFilename(filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	if strings.ContainsAny(filename, invalidFilenameChars) {
		return "", fmt.Errorf("filename contains invalid characters: %s", invalidFilenameChars)
	}

	base := strings.ToUpper(strings.TrimSuffix(filename, filepath.Ext(filename)))
	if reservedNames[strings.ToUpper(filename)] || reservedNames[base] {
		return "", fmt.Errorf("%q is a reserved filename", filename)
	}

	if len(filename) > maxFilenameLength {
		return "", fmt.Errorf("filename too long (max %d characters)", maxFilenameLength)
	}

	return filename, nil
}

// ValidatePath ensures path resolves inside the workspace directory
// and returns the absolute path.
func ValidatePath(path, workspace string) (string, error) {
	absWorkspace, err := filepath.Abs(workspace)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	rel, err := filepath.Rel(absWorkspace, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is outside the workspace directory")
	}

	return absPath, nil
}

// SanitizeContent strips script tags and similar risky patterns from
// generated content before it reaches disk.
func SanitizeContent(content string) string {
	for _, p := range dangerousContentPatterns {
		content = p.ReplaceAllString(content, "")
	}
	return strings.TrimSpace(content)
}
