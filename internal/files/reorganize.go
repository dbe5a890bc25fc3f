// Package files implements the batch file reorganizers: renaming, splitting
// and thinning directories, numbering, bucketing by size and duplication.
//
// Directory operations take a snapshot of the regular files in the directory
// at call start (see fsutil.ListSortedFiles) and never touch sub-directories.
package files

import (
	"crypto/md5" // #nosec G501 - names only, not a security boundary
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ironsheep/media-actions/internal/fsutil"
)

var (
	// ErrInvalidArguments is returned for parameter values no reorganizer can act on.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrTargetExists is returned instead of replacing a file or folder
	// that already holds the new name.
	ErrTargetExists = errors.New("target already exists")
)

// Position selects where numberFilenames inserts the number segment.
type Position string

const (
	Prefix  Position = "prefix"
	Postfix Position = "postfix"
)

// PrefixName renames path to "<prefix><name>.<ext>". Directories are renamed
// as a whole, without extension handling.
func PrefixName(path, prefix string) (string, error) {
	return renameWith(path, func(name string) string { return prefix + name })
}

// PostfixName renames path to "<name><postfix>.<ext>".
func PostfixName(path, postfix string) (string, error) {
	return renameWith(path, func(name string) string { return name + postfix })
}

func renameWith(path string, change func(string) string) (string, error) {
	var target string
	if fsutil.IsDir(path) {
		target = filepath.Join(filepath.Dir(path), change(filepath.Base(path)))
	} else {
		dir, name, ext := fsutil.SplitPath(path)
		target = fsutil.JoinName(dir, change(name), ext)
	}

	if target == path {
		return target, nil
	}
	if fsutil.Exists(target) {
		return "", fmt.Errorf("rename %s: %w: %s", path, ErrTargetExists, target)
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("failed to rename: %w", err)
	}
	return target, nil
}

// SplitLargeFolder moves the files of dir into sub-directories "0", "1", ...
// holding at most batchSize files each, in sorted order. It returns the
// created sub-directories.
func SplitLargeFolder(dir string, batchSize int) ([]string, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("%w: batch size must be at least 1, got %d", ErrInvalidArguments, batchSize)
	}

	paths, err := fsutil.ListSortedFiles(dir)
	if err != nil {
		return nil, err
	}

	var folders []string
	var dest string
	for i, p := range paths {
		if i%batchSize == 0 {
			dest = filepath.Join(dir, strconv.Itoa(i/batchSize))
			if err := os.Mkdir(dest, 0o755); err != nil {
				return folders, fmt.Errorf("failed to create batch folder: %w", err)
			}
			folders = append(folders, dest)
		}
		if err := os.Rename(p, filepath.Join(dest, filepath.Base(p))); err != nil {
			return folders, fmt.Errorf("failed to move %s: %w", p, err)
		}
	}
	return folders, nil
}

// WeedOutFiles permanently deletes every file of dir whose sorted index is
// not a multiple of keepOneOutOf. It returns the files that remain.
func WeedOutFiles(dir string, keepOneOutOf int) ([]string, error) {
	if keepOneOutOf < 1 {
		return nil, fmt.Errorf("%w: keep_one_file_out_of must be at least 1, got %d", ErrInvalidArguments, keepOneOutOf)
	}

	paths, err := fsutil.ListSortedFiles(dir)
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(paths)/keepOneOutOf+1)
	for i, p := range paths {
		if i%keepOneOutOf == 0 {
			kept = append(kept, p)
			continue
		}
		if err := os.Remove(p); err != nil {
			return kept, fmt.Errorf("failed to delete %s: %w", p, err)
		}
	}
	return kept, nil
}

// ObfuscateName gives path a name derived from an md5 hash of the path and
// the current time. With keepOriginal the file is copied and the source stays.
func ObfuscateName(path string, keepOriginal bool) (string, error) {
	return obfuscateName(path, keepOriginal, time.Now())
}

func obfuscateName(path string, keepOriginal bool, now time.Time) (string, error) {
	dir := filepath.Dir(path)
	ext := ""
	if !fsutil.IsDir(path) {
		_, _, ext = fsutil.SplitPath(path)
	}

	target := fsutil.JoinName(dir, hashName(path, now), ext)

	if keepOriginal {
		if err := fsutil.CopyFile(path, target); err != nil {
			return "", fmt.Errorf("failed to copy to hashed name: %w", err)
		}
		return target, nil
	}
	if fsutil.Exists(target) {
		return "", fmt.Errorf("rename %s: %w: %s", path, ErrTargetExists, target)
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("failed to rename to hashed name: %w", err)
	}
	return target, nil
}

func hashName(path string, now time.Time) string {
	h := md5.New() // #nosec G401
	h.Write([]byte(path))
	h.Write([]byte(strconv.FormatFloat(float64(now.UnixNano())/1e9, 'f', -1, 64)))
	return hex.EncodeToString(h.Sum(nil))
}

// NumberFilenames renames paths, in lexicographic order, with a zero-padded
// index starting at start and growing by step. The number segment
// "<numberPrefix><index>" is joined to the name with an underscore, before
// or after it depending on pos.
//
// All new names are checked before the first rename: when any of them
// already exists, nothing is renamed and ErrTargetExists is returned.
func NumberFilenames(paths []string, start, step int, numberPrefix string, pos Position) ([]string, error) {
	if pos != Prefix && pos != Postfix {
		return nil, fmt.Errorf("%w: position must be %q or %q, got %q", ErrInvalidArguments, Prefix, Postfix, pos)
	}

	sorted := fsutil.FilterByExtension(paths)
	width := len(strconv.Itoa(start + len(sorted)*step))

	targets := make([]string, len(sorted))
	taken := make(map[string]bool, len(sorted))
	index := start
	for i, p := range sorted {
		number := numberPrefix + padIndex(index, width)
		dir, name, ext := fsutil.SplitPath(p)

		var newName string
		if pos == Postfix {
			newName = name + "_" + number
		} else {
			newName = number + "_" + name
		}

		target := fsutil.JoinName(dir, newName, ext)
		if taken[target] || fsutil.Exists(target) {
			return nil, fmt.Errorf("number %s: %w: %s", p, ErrTargetExists, target)
		}
		taken[target] = true
		targets[i] = target
		index += step
	}

	renamed := make([]string, 0, len(sorted))
	for i, p := range sorted {
		if err := os.Rename(p, targets[i]); err != nil {
			return renamed, fmt.Errorf("failed to rename %s: %w", p, err)
		}
		renamed = append(renamed, targets[i])
	}
	return renamed, nil
}

func padIndex(index, width int) string {
	s := strconv.Itoa(index)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

// BucketBySize moves files sharing a byte size with at least one other file
// into a sub-folder named after that size. Files with a unique size stay
// where they are. It returns the created folders in order of first occurrence.
func BucketBySize(dir string) ([]string, error) {
	paths, err := fsutil.ListSortedFiles(dir)
	if err != nil {
		return nil, err
	}

	bySize := make(map[int64][]string)
	var order []int64
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		size := info.Size()
		if _, seen := bySize[size]; !seen {
			order = append(order, size)
		}
		bySize[size] = append(bySize[size], p)
	}

	var folders []string
	for _, size := range order {
		group := bySize[size]
		if len(group) < 2 {
			continue
		}

		folder := filepath.Join(dir, strconv.FormatInt(size, 10))
		if err := os.Mkdir(folder, 0o755); err != nil {
			return folders, fmt.Errorf("failed to create size folder: %w", err)
		}
		folders = append(folders, folder)

		for _, p := range group {
			if err := os.Rename(p, filepath.Join(folder, filepath.Base(p))); err != nil {
				return folders, fmt.Errorf("failed to move %s: %w", p, err)
			}
		}
	}
	return folders, nil
}

// DuplicateFile writes count copies of path named "<name>(i).<ext>", each at
// the lowest free index, preserving mode and modification time.
func DuplicateFile(path string, count int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: number of duplicates must be at least 1, got %d", ErrInvalidArguments, count)
	}

	copies := make([]string, 0, count)
	for i := 0; i < count; i++ {
		target := fsutil.IndexedPath(path)
		if err := fsutil.CopyFile(path, target); err != nil {
			return copies, err
		}
		copies = append(copies, target)
	}
	return copies, nil
}
