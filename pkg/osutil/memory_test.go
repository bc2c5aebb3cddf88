package osutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalMemory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	const physical = 8 << 30

	limited := write("limited", "2147483648\n")
	unlimitedV2 := write("unlimited-v2", "max\n")
	unlimitedV1 := write("unlimited-v1", "9223372036854771712\n")
	garbage := write("garbage", "lots")
	larger := write("larger", "17179869184")
	missing := filepath.Join(dir, "missing")

	assert.EqualValues(t, physical, totalMemory(physical, nil))
	assert.EqualValues(t, physical, totalMemory(physical, []string{missing}))
	assert.EqualValues(t, 2<<30, totalMemory(physical, []string{limited}))
	assert.EqualValues(t, 2<<30, totalMemory(physical, []string{unlimitedV2, limited}))
	assert.EqualValues(t, physical, totalMemory(physical, []string{unlimitedV1, garbage}))
	assert.EqualValues(t, physical, totalMemory(physical, []string{larger}))
}

func TestGetTotalMemory(t *testing.T) {
	assert.NotZero(t, GetTotalMemory())
}
