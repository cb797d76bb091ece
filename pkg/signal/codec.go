package signal

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/anggasct/signaledit/pkg/mapmodel"
)

type cycleTurnDoc struct {
	Src      mapmodel.LaneID `yaml:"src" json:"src"`
	Dst      mapmodel.LaneID `yaml:"dst" json:"dst"`
	Priority string          `yaml:"priority" json:"priority"`
}

type cycleDoc struct {
	Duration uint64         `yaml:"duration_s" json:"duration_s"`
	Turns    []cycleTurnDoc `yaml:"turns,omitempty" json:"turns,omitempty"`
}

type planDoc struct {
	ID     mapmodel.IntersectionID `yaml:"intersection" json:"intersection"`
	Cycles []cycleDoc              `yaml:"cycles" json:"cycles"`
}

func (s *ControlTrafficSignal) toDoc() planDoc {
	doc := planDoc{ID: s.ID, Cycles: make([]cycleDoc, 0, len(s.Cycles))}
	for _, c := range s.Cycles {
		cd := cycleDoc{Duration: c.Seconds()}
		for _, id := range mapmodel.SortedTurnIDs(c.turns) {
			cd.Turns = append(cd.Turns, cycleTurnDoc{Src: id.Src, Dst: id.Dst, Priority: c.turns[id].String()})
		}
		doc.Cycles = append(doc.Cycles, cd)
	}
	return doc
}

func (s *ControlTrafficSignal) fromDoc(doc planDoc) error {
	cycles := make([]*Cycle, 0, len(doc.Cycles))
	for i, cd := range doc.Cycles {
		c := NewCycle(doc.ID, 0)
		if err := c.SetSeconds(cd.Duration); err != nil {
			return fmt.Errorf("cycle %d: %w", i+1, err)
		}
		for _, td := range cd.Turns {
			id := mapmodel.TurnID{Parent: doc.ID, Src: td.Src, Dst: td.Dst}
			p, err := ParsePriority(id, td.Priority)
			if err != nil {
				return fmt.Errorf("cycle %d: %w", i+1, err)
			}
			c.EditTurn(id, p)
		}
		cycles = append(cycles, c)
	}
	s.ID = doc.ID
	s.Cycles = cycles
	return s.Validate()
}

// MarshalYAML encodes the plan as an intersection id and a cycle list
func (s *ControlTrafficSignal) MarshalYAML() (interface{}, error) {
	return s.toDoc(), nil
}

// UnmarshalYAML decodes a plan. A Stop priority is reported as an
// InvariantError.
func (s *ControlTrafficSignal) UnmarshalYAML(value *yaml.Node) error {
	var doc planDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	return s.fromDoc(doc)
}

// MarshalJSON encodes the plan with the same layout as YAML
func (s *ControlTrafficSignal) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.toDoc())
}

// UnmarshalJSON decodes a plan from JSON
func (s *ControlTrafficSignal) UnmarshalJSON(data []byte) error {
	var doc planDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return s.fromDoc(doc)
}
