// Package store persists small key/value settings as JSON documents.
//
// Two stores back a session: user defaults, shared by every document, and
// document settings, one file per screenplay. Values are read with gjson
// and written with sjson, so keys are gjson paths and "goals.dailyGoal"
// lives under a nested "goals" object.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Well-known keys.
const (
	KeyTagColors        = "tagColors"
	KeyThemePreference  = "themePreference"
	KeyFavoriteTags     = "favoriteTags"
	KeyDismissedEntries = "dismissedEntries"
	KeyGoals            = "goals"
	KeyCuePreferences   = "cuePreferences"
)

// ErrInvalidKey is returned for an empty key.
var ErrInvalidKey = errors.New("invalid key")

// Store is a synchronous key/value store of JSON values.
type Store interface {
	// Get returns the value under key and whether it exists.
	Get(key string) (gjson.Result, bool)

	// Set stores v, which must be JSON-encodable, under key.
	Set(key string, v any) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Memory is a Store held in memory.
type Memory struct {
	mu  sync.RWMutex
	doc string
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{doc: "{}"}
}

// NewMemoryFrom creates a store holding the JSON object doc. Anything that
// is not a JSON object is discarded.
func NewMemoryFrom(doc string) *Memory {
	m := NewMemory()
	if gjson.Valid(doc) && gjson.Parse(doc).IsObject() {
		m.doc = doc
	}
	return m
}

// Get implements Store.
func (m *Memory) Get(key string) (gjson.Result, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r := gjson.Get(m.doc, key)
	return r, r.Exists()
}

// Set implements Store.
func (m *Memory) Set(key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.setLocked(key, v)
	return err
}

func (m *Memory) setLocked(key string, v any) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	doc, err := sjson.Set(m.doc, key, v)
	if err != nil {
		return "", fmt.Errorf("set %q: %w", key, err)
	}
	m.doc = doc
	return doc, nil
}

// Delete implements Store.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.deleteLocked(key)
	return err
}

func (m *Memory) deleteLocked(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	doc, err := sjson.Delete(m.doc, key)
	if err != nil {
		return "", fmt.Errorf("delete %q: %w", key, err)
	}
	m.doc = doc
	return doc, nil
}

// JSON returns the whole document.
func (m *Memory) JSON() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc
}

var _ Store = (*Memory)(nil)

// Strings reads a JSON array of strings. Non-string members are skipped.
func Strings(s Store, key string) []string {
	r, ok := s.Get(key)
	if !ok || !r.IsArray() {
		return nil
	}
	var out []string
	for _, v := range r.Array() {
		if v.Type == gjson.String {
			out = append(out, v.String())
		}
	}
	return out
}

// Bool reads a boolean, returning def when the key is missing or not a
// boolean.
func Bool(s Store, key string, def bool) bool {
	r, ok := s.Get(key)
	if !ok || (r.Type != gjson.True && r.Type != gjson.False) {
		return def
	}
	return r.Bool()
}

// Int reads an integer, returning def when the key is missing or not a
// number.
func Int(s Store, key string, def int) int {
	r, ok := s.Get(key)
	if !ok || r.Type != gjson.Number {
		return def
	}
	return int(r.Int())
}

// String reads a string, returning def when the key is missing or not a
// string.
func String(s Store, key, def string) string {
	r, ok := s.Get(key)
	if !ok || r.Type != gjson.String {
		return def
	}
	return r.String()
}
