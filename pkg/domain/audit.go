package domain

import "time"

type AuditAction string

const (
	ActionStageExecuted       AuditAction = "STAGE_EXECUTED"
	ActionStageBlocked        AuditAction = "STAGE_BLOCKED"
	ActionAICallApproved      AuditAction = "AI_CALL_APPROVED"
	ActionAIPhaseApproved     AuditAction = "AI_PHASE_APPROVED"
	ActionAISessionApproved   AuditAction = "AI_SESSION_APPROVED"
	ActionAttestationProvided AuditAction = "ATTESTATION_PROVIDED"
	ActionPHIScanCompleted    AuditAction = "PHI_SCAN_COMPLETED"
	ActionOverrideDecided     AuditAction = "PHI_OVERRIDE_DECIDED"
	ActionWorkflowReset       AuditAction = "WORKFLOW_RESET"
)

// AuditEntry is one record of the per-session append-only audit log.
// Entries are never edited or deleted individually; a workflow reset
// replaces the whole log with a single reset marker.
type AuditEntry struct {
	Seq       int         `json:"seq"`
	Timestamp time.Time   `json:"timestamp"`
	Action    AuditAction `json:"action"`
	StageID   int         `json:"stageId,omitempty"`
	StageName string      `json:"stageName,omitempty"`
	Detail    string      `json:"detail,omitempty"`
}
