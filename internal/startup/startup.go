// Package startup registers the executable to run when the user logs in.
package startup

import (
	"errors"
	"io/fs"
	"log"
)

// Values is the slice of a registry key the toggle needs. registry.Key
// satisfies it.
type Values interface {
	GetStringValue(name string) (string, uint32, error)
	SetStringValue(name, value string) error
	DeleteValue(name string) error
	Close() error
}

// Opener opens the autostart key, for writing when write is true.
type Opener func(write bool) (Values, error)

type Toggle struct {
	Name string
	Path string
	open Opener
}

func New(name, path string, open Opener) *Toggle {
	return &Toggle{Name: name, Path: path, open: open}
}

func (t *Toggle) value() string {
	return `"` + t.Path + `"`
}

// IsEnabled reports whether the value exists and points at exactly this
// executable.
func (t *Toggle) IsEnabled() bool {
	key, err := t.open(false)
	if err != nil {
		return false
	}
	defer key.Close()

	val, _, err := key.GetStringValue(t.Name)
	return err == nil && val == t.value()
}

// SetEnabled writes or removes the autostart value. An inaccessible key is
// a no-op.
func (t *Toggle) SetEnabled(enabled bool) error {
	key, err := t.open(true)
	if err != nil {
		log.Printf("Autostart key unavailable, skipping: %v", err)
		return nil
	}
	defer key.Close()

	if enabled {
		return key.SetStringValue(t.Name, t.value())
	}

	if err := key.DeleteValue(t.Name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Apply switches autostart and returns the state the registry ends up in,
// which is what callers should persist. With an inaccessible key nothing
// changes and the previous state is returned.
func (t *Toggle) Apply(enabled bool) (bool, error) {
	if err := t.SetEnabled(enabled); err != nil {
		return t.IsEnabled(), err
	}
	return t.IsEnabled(), nil
}

// Sync re-registers the executable when autostart is wanted but the stored
// value is missing or points at a previous location.
func (t *Toggle) Sync(wanted bool) error {
	if !wanted || t.IsEnabled() {
		return nil
	}
	log.Printf("Autostart entry for %s is stale, rewriting", t.Name)
	return t.SetEnabled(true)
}
