// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session: durable storage backends for the session token and state.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"orbit/cli/internal/keychain"
)

// Storage persists the session across process restarts. The in-memory Store
// remains authoritative at runtime; Storage has last-write-wins semantics and
// no transactional guarantee.
//
// Absent values load as zero values with a nil error, so a fresh install and
// a logged-out install are indistinguishable.
type Storage interface {
	SetToken(token string) error
	Token() (string, error)
	SetState(data []byte) error
	State() ([]byte, error)
	Clear() error
}

// NewKeychainStorage returns Storage backed by the OS keychain.
func NewKeychainStorage(m *keychain.Manager) Storage {
	return &keychainStorage{m: m}
}

type keychainStorage struct {
	m *keychain.Manager
}

func (k *keychainStorage) SetToken(token string) error { return k.m.SaveToken(token) }
func (k *keychainStorage) Token() (string, error)      { return k.m.LoadToken() }
func (k *keychainStorage) SetState(data []byte) error  { return k.m.SaveState(data) }
func (k *keychainStorage) State() ([]byte, error)      { return k.m.LoadState() }
func (k *keychainStorage) Clear() error                { return k.m.Clear() }

// fileRecord is the on-disk layout for file-backed storage.
type fileRecord struct {
	Token string          `json:"token,omitempty"`
	State json.RawMessage `json:"state,omitempty"`
}

// NewFileStorage returns Storage writing a single session file under dir with
// 0600 permissions. Used on platforms without a native credential store.
func NewFileStorage(dir string) Storage {
	return &fileStorage{path: filepath.Join(dir, "session.json")}
}

type fileStorage struct {
	mu   sync.Mutex
	path string
}

func (f *fileStorage) read() (fileRecord, error) {
	var rec fileRecord
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rec, nil
		}
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return fileRecord{}, err
	}
	return rec, nil
}

func (f *fileStorage) write(rec fileRecord) error {
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, b, 0o600)
}

func (f *fileStorage) SetToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, err := f.read()
	if err != nil {
		rec = fileRecord{}
	}
	rec.Token = token
	return f.write(rec)
}

func (f *fileStorage) Token() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, err := f.read()
	if err != nil {
		return "", err
	}
	return rec.Token, nil
}

func (f *fileStorage) SetState(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, err := f.read()
	if err != nil {
		rec = fileRecord{}
	}
	rec.State = append(json.RawMessage{}, data...)
	return f.write(rec)
}

func (f *fileStorage) State() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, err := f.read()
	if err != nil {
		return nil, err
	}
	return rec.State, nil
}

func (f *fileStorage) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// NewMemoryStorage returns Storage that lives only in process memory.
// Used by tests and as the degraded mode when no durable backend is usable.
func NewMemoryStorage() Storage {
	return &memoryStorage{}
}

type memoryStorage struct {
	mu    sync.Mutex
	token string
	state []byte
}

func (m *memoryStorage) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memoryStorage) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memoryStorage) SetState(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = append([]byte{}, data...)
	return nil
}

func (m *memoryStorage) State() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *memoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.state = nil
	return nil
}
