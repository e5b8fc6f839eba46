//go:build windows

package startup

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows/registry"
)

const runKey = `Software\Microsoft\Windows\CurrentVersion\Run`

func openRunKey(write bool) (Values, error) {
	access := uint32(registry.QUERY_VALUE)
	if write {
		access |= registry.SET_VALUE
	}
	key, err := registry.OpenKey(registry.CURRENT_USER, runKey, access)
	if err != nil {
		return nil, err
	}
	return key, nil
}

// NewRunKey returns a toggle for the running executable, keyed by its file
// name without extension.
func NewRunKey() (*Toggle, error) {
	exePath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(exePath); err == nil {
		exePath = abs
	}
	name := strings.TrimSuffix(filepath.Base(exePath), filepath.Ext(exePath))
	return New(name, exePath, openRunKey), nil
}
