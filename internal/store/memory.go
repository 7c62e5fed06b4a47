package store

import (
	"encoding/json"
	"sync"
)

// Memory is an in-process Store used in tests and single-terminal trials.
// Collections are held as marshalled JSON so callers never share state
// with the store through aliased slices.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (s *Memory) Load(key string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.data[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (s *Memory) Save(key string, value any) error {
	return s.SaveAll(Write{Key: key, Value: value})
}

func (s *Memory) SaveAll(writes ...Write) error {
	staged := make(map[string][]byte, len(writes))
	for _, w := range writes {
		data, err := json.Marshal(w.Value)
		if err != nil {
			return err
		}
		staged[w.Key] = data
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, data := range staged {
		s.data[key] = data
	}
	return nil
}

func (s *Memory) Has(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok, nil
}
