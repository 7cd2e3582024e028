package filex

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_RelativeResolvesAgainstCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("downloads")
	require.NoError(t, err)

	want := filepath.Join(tmp, "downloads")
	gotEval, _ := filepath.EvalSymlinks(got)
	wantEval, _ := filepath.EvalSymlinks(want)
	require.Equal(t, wantEval, gotEval)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_AbsoluteAndIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	got1, err := EnsureDir(dir)
	require.NoError(t, err)
	got2, err := EnsureDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got1)
	assert.Equal(t, got1, got2)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Quarterly Review", "Quarterly Review"},
		{"  a/b\\c:d  ", "a_b_c_d"},
		{"many   spaces\there", "many spaces here"},
		{"what?*", "what__"},
		{"...", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeFilename_Caps(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("x", 500))
	assert.Len(t, got, maxNameBytes)

	wide := SanitizeFilename(strings.Repeat("文", 200))
	assert.LessOrEqual(t, len(wide), maxNameBytes)
	assert.True(t, utf8.ValidString(wide))
	assert.Equal(t, strings.Repeat("文", maxNameBytes/3), wide)
}

func TestUniquePath_SkipsExisting(t *testing.T) {
	dir := t.TempDir()

	first, err := UniquePath(dir, "deck", ".pptx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "deck.pptx"), first)
	require.NoError(t, WriteNew(first, []byte("1")))

	second, err := UniquePath(dir, "deck", ".pptx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "deck (1).pptx"), second)
}

func TestUniquePath_WideTitleFits(t *testing.T) {
	dir := t.TempDir()
	base := SanitizeFilename(strings.Repeat("文", 200))

	path, err := UniquePath(dir, base, ".docx")
	require.NoError(t, err)
	require.NoError(t, WriteNew(path, []byte("x")))

	next, err := UniquePath(dir, base, ".docx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, base+" (1).docx"), next)
}

func TestUniquePath_StatErrorReturned(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	done := make(chan error, 1)
	go func() {
		_, err := UniquePath(file, "deck", ".pptx")
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("UniquePath did not return")
	}
}

func TestWriteNew_RemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	orig := writeData
	writeData = func(f *os.File, data []byte) (int, error) {
		n, _ := f.Write(data[:1])
		return n, errors.New("disk full")
	}
	t.Cleanup(func() { writeData = orig })

	err := WriteNew(path, []byte("payload"))
	require.ErrorContains(t, err, "disk full")

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestWriteNew_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")

	require.NoError(t, WriteNew(path, []byte("v1")))
	require.Error(t, WriteNew(path, []byte("v2")))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(b))
}
