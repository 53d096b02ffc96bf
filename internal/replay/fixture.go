package replay

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wonny/aegis-universe/internal/contracts"
)

// Fixture is a dated sequence of cycles replayed against one selector
type Fixture struct {
	Name   string  `yaml:"name"`
	Cycles []Cycle `yaml:"cycles"`
}

// Cycle is the data a feed would have served at Date
type Cycle struct {
	Date       time.Time                   `yaml:"date"`
	Candidates []contracts.CandidateRecord `yaml:"candidates"`
	Fine       []contracts.FineRecord      `yaml:"fine"`

	// 선택: 기대 결과 (비어 있으면 검증 안 함)
	ExpectOutcome contracts.Outcome `yaml:"expect_outcome,omitempty"`
	ExpectSymbols []string          `yaml:"expect_symbols,omitempty"`
}

// LoadFixture reads a fixture file
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a fixture. Unknown keys are rejected.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	if len(f.Cycles) == 0 {
		return nil, fmt.Errorf("fixture %q has no cycles", f.Name)
	}
	for i := 1; i < len(f.Cycles); i++ {
		if !f.Cycles[i].Date.After(f.Cycles[i-1].Date) {
			return nil, fmt.Errorf("cycle %d: dates must be strictly increasing", i)
		}
	}
	for i, c := range f.Cycles {
		if c.ExpectOutcome != "" && !validOutcome(c.ExpectOutcome) {
			return nil, fmt.Errorf("cycle %d: unknown expect_outcome %q", i, c.ExpectOutcome)
		}
	}

	return &f, nil
}

func validOutcome(o contracts.Outcome) bool {
	for _, known := range contracts.AllOutcomes() {
		if o == known {
			return true
		}
	}
	return false
}
