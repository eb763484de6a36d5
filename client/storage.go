package client

import (
	"encoding/json"
	"os"
	"sync"
)

// Keys mirroring what the browser app kept in localStorage.
const (
	keyToken    = "token"
	keyIsLogged = "isLogged"
)

// Storage is the persisted credential store. Get returns "" for a missing
// key.
type Storage interface {
	Get(key string) string
	Set(key, value string)
	Delete(key string)
}

// FileStorage persists values as a JSON object on disk, standing in for
// the browser's localStorage. Read and write errors degrade to an empty
// store rather than failing the session.
type FileStorage struct {
	Path string

	mu sync.Mutex
}

func (s *FileStorage) load() map[string]string {
	m := map[string]string{}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return m
	}
	json.Unmarshal(raw, &m)
	return m
}

func (s *FileStorage) save(m map[string]string) {
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	os.WriteFile(s.Path, raw, 0o600)
}

func (s *FileStorage) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()[key]
}

func (s *FileStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	m[key] = value
	s.save(m)
}

func (s *FileStorage) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	delete(m, key)
	s.save(m)
}

// MemStorage keeps values in memory.
type MemStorage struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemStorage() *MemStorage {
	return &MemStorage{m: map[string]string{}}
}

func (s *MemStorage) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key]
}

func (s *MemStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

func (s *MemStorage) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}
