package domain

type Phase string

const (
	PhaseDefinition  Phase = "definition"
	PhaseData        Phase = "data"
	PhaseAnalysis    Phase = "analysis"
	PhasePublication Phase = "publication"
)

// StageDefinition is one step of the ordered authoring pipeline. Supplied by
// workflow configuration and consumed read-only by the governance engine.
type StageDefinition struct {
	StageID             int            `json:"stage_id" yaml:"stage_id"`
	Name                string         `json:"name" yaml:"name"`
	Phase               Phase          `json:"phase" yaml:"phase"`
	RequiredState       LifecycleState `json:"required_state" yaml:"required_state"`
	AIEnabled           bool           `json:"ai_enabled" yaml:"ai_enabled"`
	AttestationRequired bool           `json:"attestation_required" yaml:"attestation_required"`
	PHIGated            bool           `json:"phi_gated" yaml:"phi_gated"`
}

// Catalog is an ordered stage catalog with id lookup.
type Catalog struct {
	stages []StageDefinition
	byID   map[int]StageDefinition
}

func NewCatalog(stages []StageDefinition) *Catalog {
	c := &Catalog{stages: make([]StageDefinition, len(stages)), byID: make(map[int]StageDefinition, len(stages))}
	copy(c.stages, stages)
	for _, s := range stages {
		c.byID[s.StageID] = s
	}
	return c
}

func (c *Catalog) Stage(id int) (StageDefinition, bool) {
	s, ok := c.byID[id]
	return s, ok
}

func (c *Catalog) Stages() []StageDefinition {
	out := make([]StageDefinition, len(c.stages))
	copy(out, c.stages)
	return out
}

// AIEnabledStages returns the ids of every AI-enabled stage, in catalog order.
func (c *Catalog) AIEnabledStages() []int {
	var out []int
	for _, s := range c.stages {
		if s.AIEnabled {
			out = append(out, s.StageID)
		}
	}
	return out
}

// PhaseStages returns the ids of every AI-enabled stage in the given phase.
func (c *Catalog) PhaseStages(p Phase) []int {
	var out []int
	for _, s := range c.stages {
		if s.Phase == p && s.AIEnabled {
			out = append(out, s.StageID)
		}
	}
	return out
}
