package stdlib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ContainsCommonModules(t *testing.T) {
	set := Default()
	for _, name := range []string{"os", "sys", "re", "collections", "logging", "__future__"} {
		assert.True(t, set.Has(name), "expected %s in embedded stdlib list", name)
	}
	for _, name := range []string{"requests", "numpy", "yarg", "#"} {
		assert.False(t, set.Has(name), "did not expect %s in embedded stdlib list", name)
	}
}

func TestLoad_SkipsBlankAndComments(t *testing.T) {
	set, err := Load(strings.NewReader("# header\n  os  \n\nsys\n#re\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"os", "sys"}, set.Sorted())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdlib")
	require.NoError(t, os.WriteFile(path, []byte("os\nmy_builtin\n"), 0o644))

	set, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, set.Has("my_builtin"))
	assert.False(t, set.Has("sys"))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
