package engine

import (
	"crypto/rand"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/surfplay/surfplay/filesystem"
	"github.com/surfplay/surfplay/log"
	"github.com/surfplay/surfplay/where"
)

const (
	socketPrefix = "mpv-"
	socketSuffix = ".sock"
	sweepTimeout = 200 * time.Millisecond
)

// newSocketPath returns an unused IPC socket path in the sockets directory.
func newSocketPath() (string, error) {
	dir, err := where.Sockets()
	if err != nil {
		return "", fmt.Errorf("socket directory: %w", err)
	}

	name := make([]byte, 4)
	if _, err := rand.Read(name); err != nil {
		return "", fmt.Errorf("generate socket name: %w", err)
	}
	return filepath.Join(dir, fmt.Sprintf("%s%x%s", socketPrefix, name, socketSuffix)), nil
}

// SweepSockets removes the sockets of mpv processes that are gone, such as
// players that crashed or were killed. Sockets still accepting connections
// belong to running players and are kept. It returns how many were removed.
func SweepSockets() (int, error) {
	dir, err := where.Sockets()
	if err != nil {
		return 0, err
	}

	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return 0, err
	}

	var removed int
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, socketPrefix) || !strings.HasSuffix(name, socketSuffix) {
			continue
		}

		path := filepath.Join(dir, name)
		if alive(path) {
			continue
		}

		if err := filesystem.API().Remove(path); err != nil {
			log.Warnf("remove stale socket %s: %v", path, err)
			continue
		}
		log.Debugf("removed stale socket %s", path)
		removed++
	}
	return removed, nil
}

func alive(socketPath string) bool {
	conn, err := net.DialTimeout("unix", socketPath, sweepTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
