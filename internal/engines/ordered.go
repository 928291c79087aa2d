package engines

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
)

// Entry is one engine together with its key.
type Entry struct {
	Key string `json:"key"`
	domain.Engine
}

// Set is an insertion-ordered key -> engine map. It encodes as a JSON
// object whose member order is the display order.
type Set struct {
	entries []Entry
}

func (s *Set) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in order.
func (s *Set) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Keys returns the keys in order.
func (s *Set) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

func (s *Set) index(key string) int {
	for i, e := range s.entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the engine stored under key.
func (s *Set) Get(key string) (domain.Engine, bool) {
	if i := s.index(key); i >= 0 {
		return s.entries[i].Engine, true
	}
	return domain.Engine{}, false
}

// Put replaces the engine under key in place, or appends it.
func (s *Set) Put(key string, e domain.Engine) {
	if i := s.index(key); i >= 0 {
		s.entries[i].Engine = e
		return
	}
	s.entries = append(s.entries, Entry{Key: key, Engine: e})
}

// Delete removes key, reporting whether it was present.
func (s *Set) Delete(key string) bool {
	i := s.index(key)
	if i < 0 {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true
}

// Reorder rearranges the entries to follow keys, which must name every
// entry exactly once.
func (s *Set) Reorder(keys []string) error {
	order := make([]int, len(keys))
	for i, k := range keys {
		idx := s.index(k)
		if idx < 0 {
			return fmt.Errorf("%w: unknown engine %q", domain.ErrValidation, k)
		}
		order[i] = idx
	}
	entries, err := domain.Permute(s.entries, order)
	if err != nil {
		return err
	}
	s.entries = entries
	return nil
}

// Move moves the entry at position from to position to.
func (s *Set) Move(from, to int) error {
	entries, err := domain.Move(s.entries, from, to)
	if err != nil {
		return err
	}
	s.entries = entries
	return nil
}

func (s Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Engine)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Set) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		s.entries = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("engines: expected object, got %v", tok)
	}

	var entries []Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("engines: expected key, got %v", tok)
		}
		var e domain.Engine
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("engines: %s: %w", key, err)
		}
		// duplicate keys: last one wins, at the first position
		replaced := false
		for i := range entries {
			if entries[i].Key == key {
				entries[i].Engine = e
				replaced = true
				break
			}
		}
		if !replaced {
			entries = append(entries, Entry{Key: key, Engine: e})
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	s.entries = entries
	return nil
}
