package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/media-actions/internal/fsutil"
)

// makeFiles creates n files "frame_000.jpg".. in dir and returns their paths.
func makeFiles(t *testing.T, dir string, n int) []string {
	t.Helper()
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("frame_%03d.jpg", i))
		require.NoError(t, os.WriteFile(paths[i], []byte{byte(i)}, 0o644))
	}
	return paths
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestPrefixAndPostfixName(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "holiday.photo.jpg")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	sub := filepath.Join(dir, "album.2020")
	require.NoError(t, os.Mkdir(sub, 0o755))

	tests := []struct {
		name string
		fn   func(string, string) (string, error)
		path string
		add  string
		want string
	}{
		{"prefix file", PrefixName, file, "_", filepath.Join(dir, "_holiday.photo.jpg")},
		{"postfix file", PostfixName, filepath.Join(dir, "_holiday.photo.jpg"), "_v2", filepath.Join(dir, "_holiday.photo_v2.jpg")},
		{"prefix directory", PrefixName, sub, "old_", filepath.Join(dir, "old_album.2020")},
		{"postfix directory", PostfixName, filepath.Join(dir, "old_album.2020"), "_x", filepath.Join(dir, "old_album.2020_x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.path, tt.add)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, fsutil.Exists(tt.want))
			assert.False(t, fsutil.Exists(tt.path))
		})
	}
}

func TestPrefixName_Missing(t *testing.T) {
	_, err := PrefixName(filepath.Join(t.TempDir(), "nope.jpg"), "_")
	assert.Error(t, err)
}

func TestPrefixAndPostfixName_DoNotReplace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	require.NoError(t, os.WriteFile(src, []byte("AAAA"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_a.jpg"), []byte("BB"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_.jpg"), []byte("CC"), 0o644))

	_, err := PrefixName(src, "_")
	assert.ErrorIs(t, err, ErrTargetExists)
	_, err = PostfixName(src, "_")
	assert.ErrorIs(t, err, ErrTargetExists)

	assert.ElementsMatch(t, []string{"a.jpg", "_a.jpg", "a_.jpg"}, listNames(t, dir))
	data, err := os.ReadFile(filepath.Join(dir, "_a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "BB", string(data))
}

func TestSplitLargeFolder(t *testing.T) {
	dir := t.TempDir()
	paths := makeFiles(t, dir, 250)

	folders, err := SplitLargeFolder(dir, 100)
	require.NoError(t, err)
	require.Len(t, folders, 3)

	for i, want := range []int{100, 100, 50} {
		assert.Equal(t, filepath.Join(dir, fmt.Sprint(i)), folders[i])
		assert.Len(t, listNames(t, folders[i]), want)
	}

	// Sorted order is preserved across the batches.
	assert.True(t, fsutil.Exists(filepath.Join(dir, "0", filepath.Base(paths[99]))))
	assert.True(t, fsutil.Exists(filepath.Join(dir, "1", filepath.Base(paths[100]))))
	assert.True(t, fsutil.Exists(filepath.Join(dir, "2", filepath.Base(paths[249]))))
}

func TestSplitLargeFolder_InvalidBatch(t *testing.T) {
	_, err := SplitLargeFolder(t.TempDir(), 0)
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestWeedOutFiles(t *testing.T) {
	dir := t.TempDir()
	paths := makeFiles(t, dir, 10)

	kept, err := WeedOutFiles(dir, 2)
	require.NoError(t, err)

	for i, p := range paths {
		if i%2 == 0 {
			assert.True(t, fsutil.Exists(p), "index %d should be kept", i)
		} else {
			assert.False(t, fsutil.Exists(p), "index %d should be deleted", i)
		}
	}
	assert.Equal(t, []string{paths[0], paths[2], paths[4], paths[6], paths[8]}, kept)
}

func TestWeedOutFiles_LeavesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	makeFiles(t, dir, 4)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "frame_001_dir"), 0o755))

	_, err := WeedOutFiles(dir, 2)
	require.NoError(t, err)

	assert.True(t, fsutil.IsDir(filepath.Join(dir, "frame_001_dir")))
	assert.ElementsMatch(t, []string{"frame_000.jpg", "frame_002.jpg", "frame_001_dir"}, listNames(t, dir))
}

func TestObfuscateName(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("keep original copies", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "secret.png")
		require.NoError(t, os.WriteFile(src, []byte("data"), 0o644))

		got, err := obfuscateName(src, true, now)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, hashName(src, now)+".png"), got)
		assert.True(t, fsutil.Exists(src))
		data, err := os.ReadFile(got)
		require.NoError(t, err)
		assert.Equal(t, "data", string(data))
	})

	t.Run("move renames", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "secret.png")
		require.NoError(t, os.WriteFile(src, []byte("data"), 0o644))

		got, err := obfuscateName(src, false, now)
		require.NoError(t, err)
		assert.False(t, fsutil.Exists(src))
		assert.True(t, fsutil.Exists(got))
	})

	t.Run("directory keeps no extension", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "album.2020")
		require.NoError(t, os.Mkdir(src, 0o755))

		got, err := obfuscateName(src, false, now)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, hashName(src, now)), got)
		assert.True(t, fsutil.IsDir(got))
	})

	t.Run("directory cannot be copied", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "album")
		require.NoError(t, os.Mkdir(src, 0o755))

		_, err := obfuscateName(src, true, now)
		assert.ErrorIs(t, err, fsutil.ErrNotRegular)
	})
}

func TestHashName(t *testing.T) {
	now := time.Unix(1700000000, 0)
	a := hashName("/tmp/a.jpg", now)

	assert.Len(t, a, 32)
	assert.Equal(t, a, hashName("/tmp/a.jpg", now))
	assert.NotEqual(t, a, hashName("/tmp/b.jpg", now))
	assert.NotEqual(t, a, hashName("/tmp/a.jpg", now.Add(time.Second)))
}

func TestNumberFilenames(t *testing.T) {
	t.Run("prefix with padding", func(t *testing.T) {
		dir := t.TempDir()
		paths := makeFiles(t, dir, 100)

		renamed, err := NumberFilenames(paths, 0, 1, "", Prefix)
		require.NoError(t, err)
		require.Len(t, renamed, 100)

		assert.Equal(t, filepath.Join(dir, "000_frame_000.jpg"), renamed[0])
		assert.Equal(t, filepath.Join(dir, "099_frame_099.jpg"), renamed[99])
	})

	t.Run("postfix with number prefix and step", func(t *testing.T) {
		dir := t.TempDir()
		paths := makeFiles(t, dir, 3)

		renamed, err := NumberFilenames(paths, 100, 100, "n", Postfix)
		require.NoError(t, err)

		// largest index produced by the formula is 100+3*100 = 400, width 3
		assert.Equal(t, []string{
			filepath.Join(dir, "frame_000_n100.jpg"),
			filepath.Join(dir, "frame_001_n200.jpg"),
			filepath.Join(dir, "frame_002_n300.jpg"),
		}, renamed)
	})

	t.Run("ordered by original path not argument order", func(t *testing.T) {
		dir := t.TempDir()
		paths := makeFiles(t, dir, 3)
		reversed := []string{paths[2], paths[1], paths[0]}

		renamed, err := NumberFilenames(reversed, 1, 1, "", Prefix)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "1_frame_000.jpg"), renamed[0])
		assert.Equal(t, filepath.Join(dir, "3_frame_002.jpg"), renamed[2])
	})

	t.Run("existing target renames nothing", func(t *testing.T) {
		dir := t.TempDir()
		a := filepath.Join(dir, "a.jpg")
		a1 := filepath.Join(dir, "a_1.jpg")
		require.NoError(t, os.WriteFile(a, []byte("AAAA"), 0o644))
		require.NoError(t, os.WriteFile(a1, []byte("BB"), 0o644))

		renamed, err := NumberFilenames([]string{a, a1}, 1, 1, "", Postfix)
		assert.ErrorIs(t, err, ErrTargetExists)
		assert.Empty(t, renamed)

		assert.ElementsMatch(t, []string{"a.jpg", "a_1.jpg"}, listNames(t, dir))
		data, err := os.ReadFile(a1)
		require.NoError(t, err)
		assert.Equal(t, "BB", string(data))
	})

	t.Run("unknown position", func(t *testing.T) {
		_, err := NumberFilenames(nil, 0, 1, "", Position("middle"))
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})
}

func TestPadIndex(t *testing.T) {
	tests := []struct {
		index, width int
		want         string
	}{
		{0, 3, "000"},
		{99, 3, "099"},
		{100, 3, "100"},
		{1234, 2, "1234"},
		{7, 1, "7"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, padIndex(tt.index, tt.width))
	}
}

func TestBucketBySize(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, size int) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(strings.Repeat("x", size)), 0o644))
	}
	write("a.bin", 10)
	write("b.bin", 20)
	write("c.bin", 10)
	write("d.bin", 30)
	write("e.bin", 20)
	write("f.bin", 10)

	folders, err := BucketBySize(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "10"), filepath.Join(dir, "20")}, folders)
	assert.ElementsMatch(t, []string{"a.bin", "c.bin", "f.bin"}, listNames(t, filepath.Join(dir, "10")))
	assert.ElementsMatch(t, []string{"b.bin", "e.bin"}, listNames(t, filepath.Join(dir, "20")))
	assert.True(t, fsutil.Exists(filepath.Join(dir, "d.bin")))
}

func TestBucketBySize_AllUnique(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), []byte("22"), 0o644))

	folders, err := BucketBySize(dir)
	require.NoError(t, err)
	assert.Empty(t, folders)
	assert.ElementsMatch(t, []string{"a", "b"}, listNames(t, dir))
}

func TestDuplicateFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(src, []byte("video"), 0o640))

	copies, err := DuplicateFile(src, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "clip(0).mp4"),
		filepath.Join(dir, "clip(1).mp4"),
		filepath.Join(dir, "clip(2).mp4"),
	}, copies)

	for _, c := range copies {
		info, err := os.Stat(c)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	}

	t.Run("continues after existing copies", func(t *testing.T) {
		more, err := DuplicateFile(src, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "clip(3).mp4")}, more)
	})
}

func TestDuplicateFile_InvalidCount(t *testing.T) {
	_, err := DuplicateFile("whatever", 0)
	assert.ErrorIs(t, err, ErrInvalidArguments)
}
