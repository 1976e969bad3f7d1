package mpv

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// ErrNotInstalled is returned when no mpv binary can be found.
var ErrNotInstalled = errors.New("mpv not found: install it or set CUETAP_MPV_PATH")

var (
	locateOnce sync.Once
	locatePath string
	locateErr  error
)

// Locate resolves the mpv binary once per process: an explicit path wins,
// then CUETAP_MPV_PATH, then $PATH.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		return checkBinary(explicit)
	}
	locateOnce.Do(func() {
		locatePath, locateErr = locate()
	})
	return locatePath, locateErr
}

func locate() (string, error) {
	if fromEnv := os.Getenv("CUETAP_MPV_PATH"); fromEnv != "" {
		return checkBinary(fromEnv)
	}
	if found, err := exec.LookPath("mpv"); err == nil {
		return found, nil
	}
	return "", ErrNotInstalled
}

func checkBinary(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("mpv binary %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("mpv binary %s is a directory", path)
	}
	return path, nil
}
