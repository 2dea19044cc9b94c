package ai

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonaStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "sys_inst.default.config"),
		[]byte("persona padrão\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "sys_inst.grupo-1.config"),
		[]byte("persona do grupo\n"), 0o644))

	store := NewPersonaStore(dir)

	t.Run("chat-specific file wins", func(t *testing.T) {
		assert.Equal(t, "persona do grupo", store.For("grupo-1"))
	})

	t.Run("unknown chat falls back to the default file", func(t *testing.T) {
		assert.Equal(t, "persona padrão", store.For("grupo-2"))
	})

	t.Run("unsafe chat IDs are sanitized into file names", func(t *testing.T) {
		assert.Equal(t, "persona padrão", store.For("../../etc/passwd"))
	})

	t.Run("results are cached until reload", func(t *testing.T) {
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "sys_inst.grupo-1.config"),
			[]byte("persona editada\n"), 0o644))
		assert.Equal(t, "persona do grupo", store.For("grupo-1"))

		store.Reload()
		assert.Equal(t, "persona editada", store.For("grupo-1"))
	})
}

func TestPersonaStoreMissingDir(t *testing.T) {
	store := NewPersonaStore(filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, defaultPersona, store.For("qualquer"))
}
