package script

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StartSectionID is the reserved id of the section a call opens with.
const StartSectionID = "introduction"

// #region section
// Section is one node of the script graph: a unit of content with an id
// and successor ids. Edges are id references, never live pointers.
type Section struct {
	ID          string   `json:"section_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Next        []string `json:"next_sections"`
}

// clone returns a deep copy with its own Next slice.
func (s *Section) clone() *Section {
	cp := *s
	cp.Next = append([]string(nil), s.Next...)
	return &cp
}

// #endregion section

// #region script
// Script is a versioned, graph-structured conversational playbook.
// Sections are held in an arena keyed by id; Order preserves insertion
// order so rendering and fallback-start selection stay deterministic.
type Script struct {
	ID          string
	Version     string
	Description string
	Sections    map[string]*Section
	Order       []string
}

// New creates an empty script.
func New(id, version, description string) *Script {
	return &Script{
		ID:          id,
		Version:     version,
		Description: description,
		Sections:    map[string]*Section{},
	}
}

// AddSection inserts a section into the arena. Re-adding an existing id
// replaces the section in place without disturbing insertion order.
func (s *Script) AddSection(sec *Section) {
	if _, ok := s.Sections[sec.ID]; !ok {
		s.Order = append(s.Order, sec.ID)
	}
	s.Sections[sec.ID] = sec
}

// Section returns the section with the given id, or nil.
func (s *Script) Section(id string) *Section {
	return s.Sections[id]
}

// InOrder returns the sections in insertion order.
func (s *Script) InOrder() []*Section {
	out := make([]*Section, 0, len(s.Order))
	for _, id := range s.Order {
		out = append(out, s.Sections[id])
	}
	return out
}

// StartingSection returns the section with the reserved start id, falling
// back to the first-inserted section, or nil for an empty script. Never errors.
func (s *Script) StartingSection() *Section {
	if sec, ok := s.Sections[StartSectionID]; ok {
		return sec
	}
	if len(s.Order) == 0 {
		return nil
	}
	return s.Sections[s.Order[0]]
}

// Clone returns a deep copy sharing no section objects with the receiver.
func (s *Script) Clone() *Script {
	cp := New(s.ID, s.Version, s.Description)
	for _, id := range s.Order {
		cp.AddSection(s.Sections[id].clone())
	}
	return cp
}

// AddEdge adds an edge from src to dst in the section graph. Idempotent:
// a present edge is never duplicated. A no-op when either end is missing.
func (s *Script) AddEdge(src, dst string) bool {
	source, ok := s.Sections[src]
	if !ok {
		return false
	}
	if _, ok := s.Sections[dst]; !ok {
		return false
	}
	for _, next := range source.Next {
		if next == dst {
			return false
		}
	}
	source.Next = append(source.Next, dst)
	return true
}

// #endregion script

// #region json
// The snapshot document carries section order implicitly as JSON object
// order, so both directions go through a token-level codec.

// MarshalJSON renders the snapshot document with sections in insertion order.
func (s *Script) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeField(&buf, "script_id", s.ID); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeField(&buf, "version", s.Version); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeField(&buf, "description", s.Description); err != nil {
		return nil, err
	}
	buf.WriteString(`,"sections":{`)
	for i, id := range s.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		sec, err := json.Marshal(s.Sections[id])
		if err != nil {
			return nil, err
		}
		buf.Write(sec)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, key, val string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(val)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// UnmarshalJSON parses a snapshot document, preserving section document order.
func (s *Script) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("script document: expected object, got %v", tok)
	}

	*s = *New("", "", "")
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		switch key {
		case "script_id":
			if err := dec.Decode(&s.ID); err != nil {
				return fmt.Errorf("script_id: %w", err)
			}
		case "version":
			if err := dec.Decode(&s.Version); err != nil {
				return fmt.Errorf("version: %w", err)
			}
		case "description":
			if err := dec.Decode(&s.Description); err != nil {
				return fmt.Errorf("description: %w", err)
			}
		case "sections":
			if err := s.decodeSections(dec); err != nil {
				return err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Script) decodeSections(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sections: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		id, _ := keyTok.(string)
		var sec Section
		if err := dec.Decode(&sec); err != nil {
			return fmt.Errorf("section %s: %w", id, err)
		}
		if sec.ID == "" {
			sec.ID = id
		}
		s.AddSection(&sec)
	}
	_, err = dec.Token() // closing brace
	return err
}

// #endregion json

// #region parse
// Parse deserializes a snapshot document, requiring the structural minimum
// of a usable script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if s.ID == "" || s.Version == "" {
		return nil, fmt.Errorf("parse script: missing script_id or version")
	}
	if len(s.Sections) == 0 {
		return nil, fmt.Errorf("parse script: no sections")
	}
	return &s, nil
}

// Load parses a snapshot document, falling back to the default script on
// any structural failure. Availability over correctness: callers always
// get a well-formed script.
func Load(data []byte) *Script {
	s, err := Parse(data)
	if err != nil {
		return Default()
	}
	return s
}

// #endregion parse
