package domain

import "fmt"

// GateResult is the outcome of evaluating every execution gate for one stage.
// When Blocked, the per-gate booleans say which gates were unmet so callers
// can surface them individually.
type GateResult struct {
	Blocked bool

	RequiresAIApproval  bool
	RequiresAttestation bool
	InvalidTransition   bool

	Reason string
}

// EvaluateStageGates decides whether stage may execute against the given
// session snapshot. Pure: it never mutates state.
//
// Gate order: bootstrap, sequencing, attestation, AI approval, lifecycle
// transition legality. Stage 1 is always permitted and bypasses every gate.
// The predecessor check carries a deliberate quirk kept for compatibility
// with the original pipeline: when the predecessor is stage 1 and nothing
// has completed yet, it is treated as satisfied.
func EvaluateStageGates(state SessionState, stage StageDefinition) GateResult {
	if stage.StageID == 1 {
		return GateResult{}
	}

	pred := stage.StageID - 1
	predOK := state.StageCompleted(pred)
	if !predOK && pred == 1 && len(state.CompletedStages) == 0 {
		predOK = true
	}
	if !predOK {
		return GateResult{
			Blocked: true,
			Reason:  fmt.Sprintf("stage %d requires stage %d to be completed first", stage.StageID, pred),
		}
	}

	res := GateResult{}
	if stage.AttestationRequired && !state.GateAttested(stage.StageID) {
		res.Blocked = true
		res.RequiresAttestation = true
		res.Reason = fmt.Sprintf("stage %d requires attestation before execution", stage.StageID)
	}
	if stage.AIEnabled && !state.StageApproved(stage.StageID) {
		res.Blocked = true
		res.RequiresAIApproval = true
		if res.Reason == "" {
			res.Reason = fmt.Sprintf("stage %d requires AI approval before execution", stage.StageID)
		} else {
			res.Reason += "; AI approval is also required"
		}
	}
	if res.Blocked {
		return res
	}

	if stage.RequiredState != state.CurrentState && !CanTransition(state.CurrentState, stage.RequiredState) {
		return GateResult{
			Blocked:           true,
			InvalidTransition: true,
			Reason: fmt.Sprintf("lifecycle state %s cannot transition to %s required by stage %d",
				state.CurrentState, stage.RequiredState, stage.StageID),
		}
	}
	return GateResult{}
}

// ApplyStageExecution records a successful execution: the stage joins
// completedStages, the lifecycle state advances, and one audit entry records
// the move. Callers must have passed EvaluateStageGates first.
func ApplyStageExecution(state SessionState, stage StageDefinition) SessionState {
	prior := state.CurrentState
	next := state.WithCompleted(stage.StageID, stage.RequiredState)
	return next.WithAudit(AuditEntry{
		Action:    ActionStageExecuted,
		StageID:   stage.StageID,
		StageName: stage.Name,
		Detail:    fmt.Sprintf("%s -> %s", prior, stage.RequiredState),
	})
}

// ApplyStageBlocked records a refused attempt. State is otherwise unmodified;
// the blocked attempt itself is auditable data.
func ApplyStageBlocked(state SessionState, stage StageDefinition, res GateResult) SessionState {
	return state.WithAudit(AuditEntry{
		Action:    ActionStageBlocked,
		StageID:   stage.StageID,
		StageName: stage.Name,
		Detail:    res.Reason,
	})
}
