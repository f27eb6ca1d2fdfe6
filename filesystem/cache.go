package filesystem

import (
	"io"
	"os"
	"time"

	"github.com/metafates/gache"
)

// Cache returns a JSON file cache at path that reads and writes through
// whichever backend is active at the time of access. A zero lifetime never expires.
func Cache[T any](path string, lifetime time.Duration) *gache.Cache[T] {
	if lifetime == 0 {
		lifetime = -1
	}

	return gache.New[T](&gache.Options{
		Path:       path,
		Lifetime:   lifetime,
		FileSystem: backendFs{},
	})
}

type backendFs struct{}

var _ gache.FileSystem = backendFs{}

func (backendFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

func (backendFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
