// Package security keeps generated output inside the directories it was
// asked to write to.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathEscape is returned when a path resolves outside its root.
var ErrPathEscape = errors.New("path escapes root")

// ValidatePathWithinDirectory checks that filePath stays inside safeDir.
// Symlinks in the longest existing prefix of either path are resolved, so a
// link inside safeDir pointing elsewhere is rejected. Paths that do not
// exist yet are accepted when their lexical form is contained.
func ValidatePathWithinDirectory(filePath, safeDir string) error {
	absPath, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	absSafeDir, err := filepath.Abs(safeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory path: %w", err)
	}

	relPath, err := filepath.Rel(resolveExisting(absSafeDir), resolveExisting(absPath))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPathEscape, err)
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) || filepath.IsAbs(relPath) {
		return fmt.Errorf("%w: %s is outside %s", ErrPathEscape, filePath, safeDir)
	}
	return nil
}

// resolveExisting evaluates symlinks in the deepest existing ancestor of an
// absolute path and re-attaches the missing tail.
func resolveExisting(absPath string) string {
	check := absPath
	for {
		if resolved, err := filepath.EvalSymlinks(check); err == nil {
			rel, _ := filepath.Rel(check, absPath)
			return filepath.Join(resolved, rel)
		}
		parent := filepath.Dir(check)
		if parent == check {
			return absPath
		}
		check = parent
	}
}

// JoinWithin joins a slash-separated relative label onto root and verifies
// the result stays inside root.
func JoinWithin(root, label string) (string, error) {
	if label == "" {
		return "", fmt.Errorf("%w: empty label", ErrPathEscape)
	}
	rel := filepath.FromSlash(label)
	if filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("%w: label %q is absolute", ErrPathEscape, label)
	}
	joined := filepath.Join(root, rel)
	if err := ValidatePathWithinDirectory(joined, root); err != nil {
		return "", err
	}
	if filepath.Clean(joined) == filepath.Clean(root) {
		return "", fmt.Errorf("%w: label %q resolves to the root", ErrPathEscape, label)
	}
	return joined, nil
}
