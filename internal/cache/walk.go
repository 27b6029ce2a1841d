package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/home-lang/pantry/internal/pantryerr"
)

func hashHex(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func sha256Hex(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// walkCacheBodies visits every ".body" file under root, reporting its
// size to fn. Uses godirwalk, which avoids the per-entry lstat calls
// filepath.Walk makes on most platforms; only ".body" files are then
// stat'ed for their size.
func walkCacheBodies(root string, fn func(path string, size int64)) error {
	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			if !strings.HasSuffix(path, ".body") {
				return nil
			}
			info, err := os.Stat(path)
			if err != nil {
				return nil
			}
			fn(path, info.Size())
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		return pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "walking cache root")
	}
	return nil
}
