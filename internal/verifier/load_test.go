package verifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.js")
	require.NoError(t, os.WriteFile(plain, []byte("let x = 'héllo';\n"), 0644))

	bom := filepath.Join(dir, "bom.js")
	require.NoError(t, os.WriteFile(bom, append([]byte{0xEF, 0xBB, 0xBF}, []byte("let y;")...), 0644))

	latin1 := filepath.Join(dir, "latin1.js")
	require.NoError(t, os.WriteFile(latin1, []byte{'c', 'a', 'f', 0xE9}, 0644))

	t.Run("utf-8", func(t *testing.T) {
		content, err := LoadFile(plain)
		require.NoError(t, err)
		assert.Equal(t, "let x = 'héllo';\n", content)
	})

	t.Run("bom stripped", func(t *testing.T) {
		content, err := LoadFile(bom)
		require.NoError(t, err)
		assert.Equal(t, "let y;", content)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		_, err := LoadFile(latin1)
		fe, ok := IsFileError(err)
		require.True(t, ok)
		assert.Equal(t, KindDecode, fe.Kind)
		assert.Contains(t, err.Error(), "not valid UTF-8")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "absent.js"))
		fe, ok := IsFileError(err)
		require.True(t, ok)
		assert.Equal(t, KindNotFound, fe.Kind)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := LoadFile(dir)
		fe, ok := IsFileError(err)
		require.True(t, ok)
		assert.Equal(t, KindUnreadable, fe.Kind)
	})
}

func TestFileErrorKind_String(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "unreadable", KindUnreadable.String())
	assert.Equal(t, "decode", KindDecode.String())
	assert.Equal(t, "unknown", FileErrorKind(42).String())
}
