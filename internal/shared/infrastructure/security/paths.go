// Package security validates file system paths taken from configuration
// and command-line flags.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// forbiddenChars are shell metacharacters never accepted in a path.
var forbiddenChars = []string{";", "&", "|", "$", "`", "<", ">", "!", "\n", "\r"}

// ValidatePath cleans path, makes it absolute and resolves symlinks when
// the target already exists. Paths carrying shell metacharacters are
// rejected.
func ValidatePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	for _, char := range forbiddenChars {
		if strings.Contains(path, char) {
			return "", fmt.Errorf("path contains forbidden character %q: %s", char, path)
		}
	}

	cleanPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cleanPath, nil
		}
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return resolved, nil
}

// WriteFile validates path and writes data to it, creating or truncating
// the file. The parent directory must exist.
func WriteFile(path string, data []byte, perm os.FileMode) (string, error) {
	cleanPath, err := ValidatePath(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(filepath.Dir(cleanPath))
	if err != nil {
		return "", fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("output directory %s is not a directory", filepath.Dir(cleanPath))
	}

	// #nosec G306 - callers choose the permission bits
	if err := os.WriteFile(cleanPath, data, perm); err != nil {
		return "", err
	}
	return cleanPath, nil
}
