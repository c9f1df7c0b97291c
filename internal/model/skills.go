package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// SkillLevel is a single skill name with its importance level.
type SkillLevel struct {
	Name  string
	Level int
}

// SkillLevels maps skill names to levels and remembers insertion order.
// Re-setting an existing name updates its level in place.
type SkillLevels struct {
	names  []string
	levels map[string]int
}

// NewSkillLevels returns an empty map.
func NewSkillLevels() *SkillLevels {
	return &SkillLevels{levels: make(map[string]int)}
}

// SkillLevelsOf builds a map from entries, in order.
func SkillLevelsOf(entries ...SkillLevel) *SkillLevels {
	s := NewSkillLevels()
	for _, e := range entries {
		s.Set(e.Name, e.Level)
	}
	return s
}

// Set assigns level to name.
func (s *SkillLevels) Set(name string, level int) {
	if s.levels == nil {
		s.levels = make(map[string]int)
	}
	if _, ok := s.levels[name]; !ok {
		s.names = append(s.names, name)
	}
	s.levels[name] = level
}

// Get returns the level stored for name.
func (s *SkillLevels) Get(name string) (int, bool) {
	if s == nil {
		return 0, false
	}
	l, ok := s.levels[name]
	return l, ok
}

// Len returns the number of skills.
func (s *SkillLevels) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the skill names in insertion order.
func (s *SkillLevels) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Entries returns name/level pairs in insertion order.
func (s *SkillLevels) Entries() []SkillLevel {
	if s == nil {
		return nil
	}
	out := make([]SkillLevel, 0, len(s.names))
	for _, n := range s.names {
		out = append(out, SkillLevel{Name: n, Level: s.levels[n]})
	}
	return out
}

// Map returns an unordered copy.
func (s *SkillLevels) Map() map[string]int {
	out := make(map[string]int, s.Len())
	if s == nil {
		return out
	}
	for k, v := range s.levels {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the skills as a JSON object in insertion order.
func (s SkillLevels) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", s.levels[n])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of integer levels, keeping key order.
func (s *SkillLevels) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("skill levels: expected object, got %v", tok)
	}

	out := NewSkillLevels()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("skill levels: unexpected key %v", tok)
		}
		var level int
		if err := dec.Decode(&level); err != nil {
			return fmt.Errorf("skill levels: level for %q: %w", name, err)
		}
		out.Set(name, level)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("skill levels: trailing data after object")
	}

	*s = *out
	return nil
}
