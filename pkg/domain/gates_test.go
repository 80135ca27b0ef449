package domain

import (
	"strings"
	"testing"
)

func testStage(id int, st LifecycleState) StageDefinition {
	return StageDefinition{StageID: id, Name: "stage", RequiredState: st}
}

func TestStage1AlwaysPermitted(t *testing.T) {
	state := NewSession("s1")
	res := EvaluateStageGates(state, testStage(1, StateDraft))
	if res.Blocked {
		t.Fatalf("stage 1 with empty completedStages should be permitted: %+v", res)
	}
}

func TestBootstrapRelaxationForStage2(t *testing.T) {
	state := NewSession("s1")
	// Predecessor is stage 1 and nothing has completed: treated satisfied.
	res := EvaluateStageGates(state, testStage(2, StateSpecDefined))
	if res.Blocked {
		t.Fatalf("stage 2 on a fresh session should pass sequencing: %+v", res)
	}

	// Once anything has completed, the relaxation no longer applies.
	state.CompletedStages = []int{2}
	res = EvaluateStageGates(state, testStage(2, StateSpecDefined))
	if !res.Blocked {
		t.Fatal("stage 2 without stage 1 completed (and non-empty history) should block")
	}
}

func TestSequencingGate(t *testing.T) {
	state := NewSession("s1")
	state.CompletedStages = []int{1, 2}
	state.CurrentState = StateSpecDefined

	res := EvaluateStageGates(state, testStage(4, StateQAPassed))
	if !res.Blocked {
		t.Fatal("stage 4 without stage 3 completed should block")
	}
	if !strings.Contains(res.Reason, "stage 3") {
		t.Fatalf("reason should name the missing predecessor, got %q", res.Reason)
	}
	if res.RequiresAIApproval || res.RequiresAttestation {
		t.Fatalf("sequencing failures should not raise gate flags: %+v", res)
	}
}

func TestAttestationGate(t *testing.T) {
	state := NewSession("s1")
	state.CompletedStages = []int{1, 2}
	state.CurrentState = StateSpecDefined

	stage := testStage(3, StateExtractionComplete)
	stage.AttestationRequired = true

	res := EvaluateStageGates(state, stage)
	if !res.Blocked || !res.RequiresAttestation {
		t.Fatalf("expected attestation block, got %+v", res)
	}

	state.AttestedGates = []int{3}
	res = EvaluateStageGates(state, stage)
	if res.Blocked {
		t.Fatalf("attested stage should pass: %+v", res)
	}
}

func TestAIApprovalGate(t *testing.T) {
	state := NewSession("s1")
	state.CompletedStages = []int{1}

	stage := testStage(2, StateSpecDefined)
	stage.AIEnabled = true

	res := EvaluateStageGates(state, stage)
	if !res.Blocked || !res.RequiresAIApproval {
		t.Fatalf("expected AI-approval block, got %+v", res)
	}

	state.ApprovedAIStages = []int{2}
	res = EvaluateStageGates(state, stage)
	if res.Blocked {
		t.Fatalf("approved stage should pass: %+v", res)
	}
}

func TestBothGatesReportedTogether(t *testing.T) {
	state := NewSession("s1")
	state.CompletedStages = []int{1, 2}
	state.CurrentState = StateSpecDefined

	stage := testStage(3, StateExtractionComplete)
	stage.AIEnabled = true
	stage.AttestationRequired = true

	res := EvaluateStageGates(state, stage)
	if !res.Blocked {
		t.Fatal("expected block")
	}
	if !res.RequiresAttestation || !res.RequiresAIApproval {
		t.Fatalf("both unmet gates must be reported, got %+v", res)
	}
}

func TestInvalidTransitionGate(t *testing.T) {
	state := NewSession("s1")
	state.CompletedStages = []int{1, 2, 3}
	state.CurrentState = StateDraft

	// QA_PASSED is not reachable from DRAFT.
	res := EvaluateStageGates(state, testStage(4, StateQAPassed))
	if !res.Blocked || !res.InvalidTransition {
		t.Fatalf("expected invalid-transition block, got %+v", res)
	}
	if res.RequiresAIApproval || res.RequiresAttestation {
		t.Fatalf("transition failures should not raise gate flags: %+v", res)
	}
}

func TestApplyStageExecution(t *testing.T) {
	state := NewSession("s1")
	stage := testStage(1, StateDraft)
	stage.Name = "Topic Declaration"

	next := ApplyStageExecution(state, stage)
	if !next.StageCompleted(1) {
		t.Fatal("stage 1 should be recorded complete")
	}
	if next.CurrentState != StateDraft {
		t.Fatalf("state should be DRAFT, got %s", next.CurrentState)
	}
	if len(next.AuditLog) != 1 || next.AuditLog[0].Action != ActionStageExecuted {
		t.Fatalf("expected one STAGE_EXECUTED entry, got %+v", next.AuditLog)
	}
	// Original value untouched.
	if len(state.CompletedStages) != 0 || len(state.AuditLog) != 0 {
		t.Fatal("ApplyStageExecution must not mutate its input")
	}
}

func TestApplyStageBlockedLeavesStateUnmodified(t *testing.T) {
	state := NewSession("s1")
	state.CompletedStages = []int{1}
	state.CurrentState = StateSpecDefined

	stage := testStage(3, StateExtractionComplete)
	res := GateResult{Blocked: true, Reason: "stage 3 requires stage 2 to be completed first"}

	next := ApplyStageBlocked(state, stage, res)
	if next.CurrentState != state.CurrentState {
		t.Fatal("blocked attempt must not change lifecycle state")
	}
	if len(next.CompletedStages) != len(state.CompletedStages) {
		t.Fatal("blocked attempt must not change completed stages")
	}
	if len(next.AuditLog) != 1 || next.AuditLog[0].Action != ActionStageBlocked {
		t.Fatalf("expected one STAGE_BLOCKED entry, got %+v", next.AuditLog)
	}
}

func TestCompletedStagesMonotonic(t *testing.T) {
	state := NewSession("s1")
	for id := 1; id <= 5; id++ {
		before := len(state.CompletedStages)
		state = state.WithCompleted(id, StateDraft)
		if len(state.CompletedStages) < before {
			t.Fatal("completedStages shrank")
		}
	}
	// Idempotent union.
	state = state.WithCompleted(3, StateDraft)
	if len(state.CompletedStages) != 5 {
		t.Fatalf("re-completing stage 3 should be a no-op, got %v", state.CompletedStages)
	}
}
