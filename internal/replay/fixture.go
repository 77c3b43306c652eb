package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/scriptloop/internal/conversation"
	"github.com/danielpatrickdp/scriptloop/internal/script"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: an optional
// starting script plus recorded conversation batches, one per loop cycle.
type Fixture struct {
	Description string          `json:"description"`
	Script      json.RawMessage `json:"script,omitempty"`
	Cycles      []FixtureCycle  `json:"cycles"`
}

// FixtureCycle is one recorded evaluation batch.
type FixtureCycle struct {
	Label         string                       `json:"label"`
	Conversations []*conversation.Conversation `json:"conversations"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.Cycles) == 0 {
		return nil, fmt.Errorf("fixture %s has no cycles", path)
	}
	return &f, nil
}

// StartScript returns the fixture's embedded script, or the default when the
// fixture does not carry one.
func (f *Fixture) StartScript() (*script.Script, error) {
	if len(f.Script) == 0 {
		return script.Default(), nil
	}
	return script.Parse(f.Script)
}

// #endregion fixture-loader
