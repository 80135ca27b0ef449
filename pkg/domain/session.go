package domain

import "time"

// SessionState is the complete per-session governance state. It is a plain
// value: the engine loads it, evaluates pure functions over it, and saves the
// returned copy. Stores never interpret it.
type SessionState struct {
	SessionID        string         `json:"sessionId"`
	CurrentState     LifecycleState `json:"currentState"`
	CompletedStages  []int          `json:"completedStages"`
	ApprovedAIStages []int          `json:"approvedAIStages"`
	AttestedGates    []int          `json:"attestedGates"`
	AuditLog         []AuditEntry   `json:"auditLog"`
}

func NewSession(sessionID string) SessionState {
	return SessionState{SessionID: sessionID, CurrentState: StateDraft}
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// addUnique is the idempotent set union used by every gate mutation.
func addUnique(xs []int, v int) []int {
	if containsInt(xs, v) {
		return xs
	}
	return append(xs, v)
}

func (s SessionState) StageCompleted(id int) bool { return containsInt(s.CompletedStages, id) }
func (s SessionState) StageApproved(id int) bool  { return containsInt(s.ApprovedAIStages, id) }
func (s SessionState) GateAttested(id int) bool   { return containsInt(s.AttestedGates, id) }

// WithCompleted returns a copy with stageID recorded complete and the
// lifecycle state advanced.
func (s SessionState) WithCompleted(stageID int, newState LifecycleState) SessionState {
	s.CompletedStages = addUnique(cloneInts(s.CompletedStages), stageID)
	s.CurrentState = newState
	return s
}

func (s SessionState) WithApproved(stageIDs ...int) SessionState {
	approved := cloneInts(s.ApprovedAIStages)
	for _, id := range stageIDs {
		approved = addUnique(approved, id)
	}
	s.ApprovedAIStages = approved
	return s
}

func (s SessionState) WithAttested(stageID int) SessionState {
	s.AttestedGates = addUnique(cloneInts(s.AttestedGates), stageID)
	return s
}

// WithAudit returns a copy with entry appended; Seq and Timestamp are filled
// in if unset.
func (s SessionState) WithAudit(entry AuditEntry) SessionState {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	entry.Seq = len(s.AuditLog) + 1
	log := make([]AuditEntry, len(s.AuditLog), len(s.AuditLog)+1)
	copy(log, s.AuditLog)
	s.AuditLog = append(log, entry)
	return s
}

func cloneInts(xs []int) []int {
	out := make([]int, len(xs))
	copy(out, xs)
	return out
}
