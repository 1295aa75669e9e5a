package filewalker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		p := filepath.Join(root, filepath.FromSlash(r))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, nil, 0644))
	}
}

func TestPackageDiscoversParsedFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"descriptor.mod",
		"common/scripted_variables/01_b.txt",
		"common/scripted_variables/00_a.txt",
		"common/scripted_variables/sub/ignored.txt",
		"common/technology/00_phys.txt",
		"common/technology/notes.md",
		"localisation/english/b_l_english.yml",
		"localisation/a_l_english.yml",
		"localisation/german/deep/c_l_german.yml",
		"gfx/ignored.yml",
	)

	files, err := NewWalker().Package(root)
	require.NoError(t, err)

	join := func(rel string) string { return filepath.Join(root, filepath.FromSlash(rel)) }
	assert.Equal(t, join("descriptor.mod"), files.Descriptor)
	assert.Equal(t, []string{
		join("common/scripted_variables/00_a.txt"),
		join("common/scripted_variables/01_b.txt"),
	}, files.Variables)
	assert.Equal(t, []string{join("common/technology/00_phys.txt")}, files.Technologies)
	assert.Equal(t, []string{
		join("localisation/a_l_english.yml"),
		join("localisation/english/b_l_english.yml"),
		join("localisation/german/deep/c_l_german.yml"),
	}, files.Localisation)
	assert.Equal(t, 7, files.Count())
}

func TestPackageMissingDirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "localisation/x_l_english.yml")

	files, err := NewWalker().Package(root)
	require.NoError(t, err)
	assert.Empty(t, files.Descriptor)
	assert.Empty(t, files.Variables)
	assert.Empty(t, files.Technologies)
	assert.Len(t, files.Localisation, 1)
}

func TestPackageRootErrors(t *testing.T) {
	_, err := NewWalker().Package(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	root := t.TempDir()
	touch(t, root, "file.txt")
	_, err = NewWalker().Package(filepath.Join(root, "file.txt"))
	assert.ErrorContains(t, err, "not a directory")
}

func TestDiscoverPackages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"300", "100", "200"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0755))
	}
	touch(t, dir, "stray.txt")

	roots, err := DiscoverPackages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "100"),
		filepath.Join(dir, "200"),
		filepath.Join(dir, "300"),
	}, roots)

	_, err = DiscoverPackages(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
