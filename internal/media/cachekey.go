package media

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// ThumbnailExt is the file extension of every cached thumbnail.
const ThumbnailExt = ".jpg"

// CacheKey identifies a thumbnail: 32 lower-case hex characters.
type CacheKey string

// DeriveKey returns the cache key for a logical path. It depends on the path
// string only, not on file contents or modification time.
func DeriveKey(logicalPath string) CacheKey {
	sum := md5.Sum([]byte(logicalPath))
	return CacheKey(hex.EncodeToString(sum[:]))
}

// FileName returns the artifact file name for the key.
func (k CacheKey) FileName() string {
	return string(k) + ThumbnailExt
}

// Valid reports whether k has the shape DeriveKey produces.
func (k CacheKey) Valid() bool {
	if len(k) != hex.EncodedLen(md5.Size) {
		return false
	}
	for i := 0; i < len(k); i++ {
		c := k[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ParseThumbnailName extracts the key from an artifact file name such as
// "0cc175b9c0f1b6a831c399e269772661.jpg". Anything else is rejected, which
// keeps request input from addressing other files in the cache directory.
func ParseThumbnailName(name string) (CacheKey, bool) {
	base, ok := strings.CutSuffix(name, ThumbnailExt)
	if !ok {
		return "", false
	}
	key := CacheKey(base)
	return key, key.Valid()
}
