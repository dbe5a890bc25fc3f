// Package fsutil provides the path and file-set helpers shared by the file,
// image and video operations.
//
// All listings are snapshots taken at call time. Callers assume nobody else
// modifies the directory while an operation runs; no file locks are taken.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SplitPath decomposes a path into its directory, base name without
// extension, and extension. The extension is everything after the last '.'
// of the base name, so "a.b.c.jpg" yields name "a.b.c" and ext "jpg".
// A base name without a '.' has an empty extension.
func SplitPath(path string) (dir, name, ext string) {
	dir = filepath.Dir(path)
	base := filepath.Base(path)

	i := strings.LastIndex(base, ".")
	if i < 0 {
		return dir, base, ""
	}
	return dir, base[:i], base[i+1:]
}

// JoinName rebuilds a path from the parts returned by SplitPath.
func JoinName(dir, name, ext string) string {
	if ext == "" {
		return filepath.Join(dir, name)
	}
	return filepath.Join(dir, name+"."+ext)
}

// DerivedPath returns "<dir>/<name><suffix>.<ext>" for the given source path.
func DerivedPath(path, suffix string) string {
	dir, name, ext := SplitPath(path)
	return JoinName(dir, name+suffix, ext)
}

// ListSortedEntries returns the direct children of dir (files and
// directories) in lexicographic order. It does not recurse. Hidden entries
// (names starting with '.') are skipped, like a shell glob of "*".
func ListSortedEntries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ListSortedFiles is ListSortedEntries restricted to regular files.
func ListSortedFiles(dir string) ([]string, error) {
	entries, err := ListSortedEntries(dir)
	if err != nil {
		return nil, err
	}

	files := entries[:0]
	for _, p := range entries {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if info.Mode().IsRegular() {
			files = append(files, p)
		}
	}
	return files, nil
}

// IndexedPath returns the lowest-indexed "<name>(i).<ext>" that does not
// exist, starting at 0.
func IndexedPath(path string) string {
	dir, name, ext := SplitPath(path)
	for i := 0; ; i++ {
		candidate := JoinName(dir, fmt.Sprintf("%s(%d)", name, i), ext)
		if !Exists(candidate) {
			return candidate
		}
	}
}

// UniquePath returns path unchanged when nothing exists there. Otherwise it
// returns IndexedPath(path).
func UniquePath(path string) string {
	if !Exists(path) {
		return path
	}
	return IndexedPath(path)
}

// Exists reports whether anything (file, directory, symlink) exists at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// FilterByExtension keeps the paths whose extension (case-insensitive,
// without the dot) is in allowed, sorted. With no allowed extensions all
// paths are returned sorted.
func FilterByExtension(paths []string, allowed ...string) []string {
	out := make([]string, 0, len(paths))
	if len(allowed) == 0 {
		out = append(out, paths...)
		sort.Strings(out)
		return out
	}

	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[strings.ToLower(strings.TrimPrefix(a, "."))] = true
	}
	for _, p := range paths {
		_, _, ext := SplitPath(p)
		if set[strings.ToLower(ext)] {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// CopyFile copies src to dst, preserving the permission bits and the
// modification time of src.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("copy %s: %w", src, ErrNotRegular)
	}

	in, err := os.Open(src) // #nosec G304 - path chosen by the caller
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy file contents: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("close destination file: %w", err)
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("preserve mode: %w", err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("preserve times: %w", err)
	}
	return nil
}

// ErrNotRegular is returned when a copy is requested for something that is
// not a regular file.
var ErrNotRegular = errors.New("not a regular file")

// MoveToSubdirectory moves every path into "<dir of first path>/<subdir>",
// creating it when needed. Name collisions inside subdir are resolved with
// UniquePath. It returns the new paths in input order.
func MoveToSubdirectory(paths []string, subdir string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	dest := filepath.Join(filepath.Dir(paths[0]), subdir)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", subdir, err)
	}

	moved := make([]string, 0, len(paths))
	for _, p := range paths {
		target := UniquePath(filepath.Join(dest, filepath.Base(p)))
		if err := os.Rename(p, target); err != nil {
			return moved, fmt.Errorf("move %s: %w", p, err)
		}
		moved = append(moved, target)
	}
	return moved, nil
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
