package debug

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogWritesCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	require.NoError(t, Enable(path))
	defer Disable()

	assert.True(t, Enabled())
	Log("music", "tempo=%d", 4)
	for i := 0; i < 4; i++ {
		LogEvery(2, "tick", "beat")
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "category=music")
	assert.Contains(t, out, "tempo=4")
	assert.Contains(t, out, "every 2, count=4")
}

func TestLogDisabledIsNoop(t *testing.T) {
	Disable()
	assert.False(t, Enabled())
	Log("music", "ignored")
}
