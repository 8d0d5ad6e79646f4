package transfer

import (
	"path/filepath"
	"strconv"
	"strings"
)

// maxSuffix bounds the collision search.
const maxSuffix = 9999

// CandidatePath returns dst for n == 0 and "<stem>_<n><ext>" otherwise. The
// suffix always attaches to the original stem.
func CandidatePath(dst string, n int) string {
	if n == 0 {
		return dst
	}
	ext := filepath.Ext(dst)
	return strings.TrimSuffix(dst, ext) + "_" + strconv.Itoa(n) + ext
}
