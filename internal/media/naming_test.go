package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoragePathStemSanitizesName(t *testing.T) {
	stem := StoragePathStem("owner-1", "My Café Photo (1).JPG")

	require.True(t, strings.HasPrefix(stem, "owner-1/"))
	assert.True(t, strings.HasSuffix(stem, "-my-caf-photo-1"), "got %s", stem)
	assert.NotContains(t, stem, " ")
	assert.NotContains(t, stem, "(")
	assert.NotContains(t, stem, ".JPG")
}

func TestStoragePathStemHandlesDegenerateNames(t *testing.T) {
	stem := StoragePathStem("owner-1", "!!!.png")
	assert.True(t, strings.HasSuffix(stem, "-image"), "got %s", stem)

	stem = StoragePathStem("owner-1", "../../etc/passwd")
	assert.True(t, strings.HasPrefix(stem, "owner-1/"))
	assert.NotContains(t, stem, "/etc")
}

func TestStoragePathStemIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		stem := StoragePathStem("owner-1", "same.jpg")
		assert.False(t, seen[stem])
		seen[stem] = true
	}
}

func TestPathWithExt(t *testing.T) {
	assert.Equal(t, "o/t-name.jpg", pathWithExt("o/t-name", "jpg"))
	assert.Equal(t, "o/t-name.png", pathWithExt("o/t-name", ".png"))
}
