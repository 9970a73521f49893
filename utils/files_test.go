package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	isDir, exists, err := Exists(dir)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, isDir)

	isDir, exists, err = Exists(file)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.False(t, isDir)

	_, exists, err = Exists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateDirNested(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, CreateDir(dir))

	isDir, exists, err := Exists(dir)
	require.NoError(t, err)
	assert.True(t, exists && isDir)
}

func TestExt(t *testing.T) {
	assert.Equal(t, ".jpeg", Ext("Photo.JPEG"))
	assert.Equal(t, ".tiff", Ext("scan.v2.Tiff"))
	assert.Equal(t, "", Ext("README"))
}
