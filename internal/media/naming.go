package media

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9]+`)

// StoragePathStem derives the object key for one accepted file, rooted
// under the owner's namespace: {ownerID}/{token}-{sanitizedBase}. The
// 128-bit random token makes collisions across concurrent submissions
// negligible. The extension is appended at upload time from the
// compression target format, not here.
func StoragePathStem(ownerID, fileName string) string {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ToLower(base)
	base = unsafeNameChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s/%s-%s", ownerID, uuid.NewString(), base)
}

// pathWithExt finalizes a storage path with the encoded format's
// extension.
func pathWithExt(stem, ext string) string {
	return stem + "." + strings.TrimPrefix(ext, ".")
}
