package script

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStartingSection(t *testing.T) {
	tests := []struct {
		name   string
		build  func() *Script
		wantID string
	}{
		{
			"reserved-id-present",
			func() *Script { return Default() },
			"introduction",
		},
		{
			"fallback-first-inserted",
			func() *Script {
				s := New("s", "1.0", "")
				s.AddSection(&Section{ID: "greeting", Name: "Greeting"})
				s.AddSection(&Section{ID: "wrap_up", Name: "Wrap Up"})
				return s
			},
			"greeting",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build().StartingSection()
			if got == nil || got.ID != tt.wantID {
				t.Errorf("StartingSection: got %v, want id %q", got, tt.wantID)
			}
		})
	}
}

func TestStartingSection_Empty(t *testing.T) {
	s := New("s", "1.0", "")
	if got := s.StartingSection(); got != nil {
		t.Errorf("empty script: got %v, want nil", got)
	}
}

func TestClone_NoAliasing(t *testing.T) {
	orig := Default()
	cp := orig.Clone()

	cp.Section("introduction").Content = "changed"
	cp.Section("introduction").Next = append(cp.Section("introduction").Next, "closing")

	if orig.Section("introduction").Content == "changed" {
		t.Error("clone shares section content with original")
	}
	if len(orig.Section("introduction").Next) != 1 {
		t.Errorf("clone shares Next slice: original has %d edges", len(orig.Section("introduction").Next))
	}
}

func TestAddEdge_Idempotent(t *testing.T) {
	s := Default()

	if !s.AddEdge("payment_discussion", "closing") {
		t.Fatal("first AddEdge should insert")
	}
	if s.AddEdge("payment_discussion", "closing") {
		t.Error("second AddEdge should be a no-op")
	}

	count := 0
	for _, next := range s.Section("payment_discussion").Next {
		if next == "closing" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate edge: closing appears %d times", count)
	}
}

func TestAddEdge_MissingEndpoints(t *testing.T) {
	s := Default()
	if s.AddEdge("payment_discussion", "nope") {
		t.Error("edge to missing target should be a no-op")
	}
	if s.AddEdge("nope", "closing") {
		t.Error("edge from missing source should be a no-op")
	}
}

func TestToPrompt_Deterministic(t *testing.T) {
	s := Default()
	a, b := s.ToPrompt(), s.ToPrompt()
	if a != b {
		t.Error("ToPrompt not deterministic")
	}
	for _, want := range []string{"SCRIPT GUIDELINES:", "--- Introduction ---", "IMPORTANT RULES:"} {
		if !strings.Contains(a, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	orig := Default()

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got.ID != orig.ID || got.Version != orig.Version {
		t.Errorf("identity: got %s/%s, want %s/%s", got.ID, got.Version, orig.ID, orig.Version)
	}
	if len(got.Order) != len(orig.Order) {
		t.Fatalf("section count: got %d, want %d", len(got.Order), len(orig.Order))
	}
	for i, id := range orig.Order {
		if got.Order[i] != id {
			t.Errorf("order[%d]: got %q, want %q", i, got.Order[i], id)
		}
		g, o := got.Sections[id], orig.Sections[id]
		if g.Name != o.Name || g.Content != o.Content || g.Description != o.Description {
			t.Errorf("section %q content mismatch", id)
		}
		if len(g.Next) != len(o.Next) {
			t.Errorf("section %q edges: got %d, want %d", id, len(g.Next), len(o.Next))
		}
	}
}

func TestLoad_FallsBackToDefault(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed-json", `{"script_id": "x"`},
		{"missing-version", `{"script_id": "x", "sections": {"a": {"section_id": "a"}}}`},
		{"no-sections", `{"script_id": "x", "version": "1.0", "sections": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Load([]byte(tt.data))
			if s == nil {
				t.Fatal("Load returned nil")
			}
			if s.ID != "base_debt_collection_script" {
				t.Errorf("expected default script, got %q", s.ID)
			}
		})
	}
}

func TestValidate_DanglingEdges(t *testing.T) {
	s := Default()
	if warnings := s.Validate(); len(warnings) != 0 {
		t.Errorf("default script has warnings: %v", warnings)
	}

	s.Section("closing").Next = append(s.Section("closing").Next, "ghost")
	warnings := s.Validate()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if warnings[0].SectionID != "closing" || warnings[0].Ref != "ghost" {
		t.Errorf("unexpected warning: %+v", warnings[0])
	}
}
