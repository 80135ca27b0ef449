package domain

type LifecycleState string

const (
	StateDraft              LifecycleState = "DRAFT"
	StateSpecDefined        LifecycleState = "SPEC_DEFINED"
	StateExtractionComplete LifecycleState = "EXTRACTION_COMPLETE"
	StateQAPassed           LifecycleState = "QA_PASSED"
	StateQAFailed           LifecycleState = "QA_FAILED"
	StateLinked             LifecycleState = "LINKED"
	StateAnalysisReady      LifecycleState = "ANALYSIS_READY"
	StateInAnalysis         LifecycleState = "IN_ANALYSIS"
	StateAnalysisComplete   LifecycleState = "ANALYSIS_COMPLETE"
	StateFrozen             LifecycleState = "FROZEN"
	StateArchived           LifecycleState = "ARCHIVED"
)

// transitions is the fixed legal-move table. ARCHIVED is terminal.
var transitions = map[LifecycleState][]LifecycleState{
	StateDraft:              {StateSpecDefined},
	StateSpecDefined:        {StateExtractionComplete},
	StateExtractionComplete: {StateQAPassed, StateQAFailed},
	StateQAFailed:           {StateExtractionComplete},
	StateQAPassed:           {StateLinked},
	StateLinked:             {StateAnalysisReady},
	StateAnalysisReady:      {StateInAnalysis},
	StateInAnalysis:         {StateAnalysisComplete},
	StateAnalysisComplete:   {StateFrozen, StateInAnalysis},
	StateFrozen:             {StateArchived},
	StateArchived:           {},
}

func ValidState(s LifecycleState) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether moving from -> to is legal. Self-transitions
// are always legal.
func CanTransition(from, to LifecycleState) bool {
	if from == to {
		return true
	}
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func TransitionTargets(from LifecycleState) []LifecycleState {
	out := make([]LifecycleState, len(transitions[from]))
	copy(out, transitions[from])
	return out
}
