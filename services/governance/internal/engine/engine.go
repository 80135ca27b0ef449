package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/domain"
	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/phi"
	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/services/governance/internal/store"
)

var (
	ErrStageUnknown     = errors.New("unknown stage")
	ErrInsufficientRole = errors.New("insufficient role")
	ErrArtifactNotFound = errors.New("artifact not found")
)

// ArtifactResolver fetches stored artifact content for reference-form scans.
// Artifact storage lives outside the governance core; deployments attach a
// resolver, and without one every reference-form scan is a not-found.
type ArtifactResolver func(ctx context.Context, researchID string, stageID int, artifactID string) (string, error)

// ValidationError marks a malformed request. The attempt is not persisted.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Engine owns all governance decisions. Every operation acquires the
// per-session lock, loads the session, evaluates pure domain functions over
// it, and saves the returned value — all-or-nothing per operation.
type Engine struct {
	sessions  store.SessionStore
	scans     store.ScanStore
	overrides store.OverrideStore
	catalog   *domain.Catalog
	artifacts ArtifactResolver

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

func New(sessions store.SessionStore, scans store.ScanStore, overrides store.OverrideStore, catalog *domain.Catalog) *Engine {
	return &Engine{
		sessions:  sessions,
		scans:     scans,
		overrides: overrides,
		catalog:   catalog,
		locks:     map[string]*sync.Mutex{},
		now:       time.Now,
	}
}

// WithArtifactResolver attaches a content resolver for reference-form scans.
func (e *Engine) WithArtifactResolver(r ArtifactResolver) *Engine {
	e.artifacts = r
	return e
}

func (e *Engine) lock(sessionID string) func() {
	e.mu.Lock()
	l, ok := e.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[sessionID] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// ExecuteRequest carries the optional PHI-gate inputs for a stage execution.
// Content is scanned in export context; ScanID references a prior scan;
// OverrideAuditID supplies an approved override when the scan demands one.
type ExecuteRequest struct {
	Content         string
	ScanID          string
	OverrideAuditID string
}

type ExecuteResult struct {
	Stage         domain.StageDefinition
	Blocked       bool
	Gates         domain.GateResult
	PreviousState domain.LifecycleState
	CurrentState  domain.LifecycleState
	Scan          *domain.ScanResult
}

func (e *Engine) ExecuteStage(ctx context.Context, sessionID string, stageID int, req ExecuteRequest) (ExecuteResult, error) {
	stage, ok := e.catalog.Stage(stageID)
	if !ok {
		return ExecuteResult{}, ErrStageUnknown
	}
	unlock := e.lock(sessionID)
	defer unlock()

	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return ExecuteResult{}, err
	}
	prior := state.CurrentState

	res := ExecuteResult{Stage: stage, PreviousState: prior, CurrentState: prior}
	gates := domain.EvaluateStageGates(state, stage)

	var scan *domain.ScanResult
	if !gates.Blocked && stage.PHIGated {
		scan, gates, err = e.evaluatePHIGate(ctx, stage, req, gates)
		if err != nil {
			return ExecuteResult{}, err
		}
		res.Scan = scan
	}

	if gates.Blocked {
		state = domain.ApplyStageBlocked(state, stage, gates)
		if err := e.sessions.Save(ctx, state); err != nil {
			return ExecuteResult{}, err
		}
		res.Blocked = true
		res.Gates = gates
		return res, nil
	}

	state = domain.ApplyStageExecution(state, stage)
	if err := e.sessions.Save(ctx, state); err != nil {
		return ExecuteResult{}, err
	}
	res.CurrentState = state.CurrentState
	return res, nil
}

// evaluatePHIGate runs the detector over fresh or referenced content and, if
// the risk demands an override, requires an approved, unexpired, unused
// override for that scan. A consumed override is marked used.
func (e *Engine) evaluatePHIGate(ctx context.Context, stage domain.StageDefinition, req ExecuteRequest, gates domain.GateResult) (*domain.ScanResult, domain.GateResult, error) {
	var scan domain.ScanResult
	switch {
	case req.Content != "":
		scan = phi.Scan(req.Content, domain.ContextExport)
		scan.ScanID = "scan_" + uuid.NewString()
		if err := e.scans.PutScan(ctx, scan); err != nil {
			return nil, gates, err
		}
	case req.ScanID != "":
		var err error
		scan, err = e.scans.GetScan(ctx, req.ScanID)
		if err != nil {
			return nil, gates, err
		}
	default:
		// Nothing to scan; an export with no content carries no PHI risk.
		return nil, gates, nil
	}

	if !scan.RequiresOverride {
		return &scan, gates, nil
	}
	if req.OverrideAuditID == "" {
		gates.Blocked = true
		gates.Reason = fmt.Sprintf("export blocked: PHI risk %s detected by scan %s and no override supplied", scan.RiskLevel, scan.ScanID)
		return &scan, gates, nil
	}
	rec, err := e.overrides.GetOverride(ctx, req.OverrideAuditID)
	if err != nil {
		return nil, gates, err
	}
	switch {
	case rec.ScanID != scan.ScanID:
		gates.Blocked = true
		gates.Reason = "override does not reference this scan"
	case !rec.Approved:
		gates.Blocked = true
		gates.Reason = "override was not approved"
	case rec.Expired(e.now()):
		gates.Blocked = true
		gates.Reason = "override has expired"
	case rec.Used:
		gates.Blocked = true
		gates.Reason = "override was already used"
	default:
		rec.Used = true
		if err := e.overrides.PutOverride(ctx, rec); err != nil {
			return nil, gates, err
		}
	}
	return &scan, gates, nil
}

// ApprovalSummary reports approval progress over the AI-enabled stages.
type ApprovalSummary struct {
	ApprovedStages []int
	ApprovedCount  int
	PendingCount   int
}

func (e *Engine) ApproveStage(ctx context.Context, sessionID string, stageID int, role domain.Role) (ApprovalSummary, error) {
	if !role.AtLeast(domain.RoleSteward) {
		return ApprovalSummary{}, ErrInsufficientRole
	}
	stage, ok := e.catalog.Stage(stageID)
	if !ok {
		return ApprovalSummary{}, ErrStageUnknown
	}
	if !stage.AIEnabled {
		return ApprovalSummary{}, &ValidationError{Msg: fmt.Sprintf("stage %d is not AI-enabled", stageID)}
	}
	return e.approve(ctx, sessionID, []int{stageID}, domain.AuditEntry{
		Action:    domain.ActionAICallApproved,
		StageID:   stageID,
		StageName: stage.Name,
		Detail:    fmt.Sprintf("approved by %s", role),
	})
}

func (e *Engine) ApprovePhase(ctx context.Context, sessionID string, phase domain.Phase, role domain.Role) (ApprovalSummary, error) {
	if !role.AtLeast(domain.RoleSteward) {
		return ApprovalSummary{}, ErrInsufficientRole
	}
	ids := e.catalog.PhaseStages(phase)
	if len(ids) == 0 {
		return ApprovalSummary{}, &ValidationError{Msg: fmt.Sprintf("unknown phase or no AI-enabled stages in phase %q", phase)}
	}
	return e.approve(ctx, sessionID, ids, domain.AuditEntry{
		Action: domain.ActionAIPhaseApproved,
		Detail: fmt.Sprintf("phase %s (%d stages) approved by %s", phase, len(ids), role),
	})
}

func (e *Engine) ApproveSession(ctx context.Context, sessionID string, role domain.Role) (ApprovalSummary, error) {
	if !role.AtLeast(domain.RoleAdmin) {
		return ApprovalSummary{}, ErrInsufficientRole
	}
	ids := e.catalog.AIEnabledStages()
	return e.approve(ctx, sessionID, ids, domain.AuditEntry{
		Action: domain.ActionAISessionApproved,
		Detail: fmt.Sprintf("all %d AI-enabled stages approved by %s", len(ids), role),
	})
}

func (e *Engine) approve(ctx context.Context, sessionID string, stageIDs []int, entry domain.AuditEntry) (ApprovalSummary, error) {
	unlock := e.lock(sessionID)
	defer unlock()

	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return ApprovalSummary{}, err
	}
	state = state.WithApproved(stageIDs...).WithAudit(entry)
	if err := e.sessions.Save(ctx, state); err != nil {
		return ApprovalSummary{}, err
	}
	return e.summary(state), nil
}

func (e *Engine) summary(state domain.SessionState) ApprovalSummary {
	s := ApprovalSummary{ApprovedStages: []int{}}
	for _, id := range e.catalog.AIEnabledStages() {
		if state.StageApproved(id) {
			s.ApprovedStages = append(s.ApprovedStages, id)
			s.ApprovedCount++
		} else {
			s.PendingCount++
		}
	}
	return s
}

type AttestationReceipt struct {
	StageID    int
	AttestedAt time.Time
	AttestedBy string
}

func (e *Engine) SubmitAttestation(ctx context.Context, sessionID string, stageID int, attestedBy string, checklistItems int) (AttestationReceipt, error) {
	stage, ok := e.catalog.Stage(stageID)
	if !ok {
		return AttestationReceipt{}, ErrStageUnknown
	}
	if !stage.AttestationRequired {
		return AttestationReceipt{}, &ValidationError{Msg: fmt.Sprintf("stage %d does not require attestation", stageID)}
	}
	if strings.TrimSpace(attestedBy) == "" {
		return AttestationReceipt{}, &ValidationError{Msg: "attestedBy is required"}
	}
	unlock := e.lock(sessionID)
	defer unlock()

	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return AttestationReceipt{}, err
	}
	at := e.now().UTC()
	state = state.WithAttested(stageID).WithAudit(domain.AuditEntry{
		Action:    domain.ActionAttestationProvided,
		StageID:   stageID,
		StageName: stage.Name,
		Detail:    fmt.Sprintf("attested by %s (%d checklist items)", attestedBy, checklistItems),
	})
	if err := e.sessions.Save(ctx, state); err != nil {
		return AttestationReceipt{}, err
	}
	return AttestationReceipt{StageID: stageID, AttestedAt: at, AttestedBy: attestedBy}, nil
}

func (e *Engine) ScanContent(ctx context.Context, sessionID, content string, scanCtx domain.ScanContext) (domain.ScanResult, error) {
	if scanCtx != domain.ContextUpload && scanCtx != domain.ContextExport {
		return domain.ScanResult{}, &ValidationError{Msg: fmt.Sprintf("context must be %q or %q", domain.ContextUpload, domain.ContextExport)}
	}
	scan := phi.Scan(content, scanCtx)
	scan.ScanID = "scan_" + uuid.NewString()
	if err := e.scans.PutScan(ctx, scan); err != nil {
		return domain.ScanResult{}, err
	}

	unlock := e.lock(sessionID)
	defer unlock()
	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return domain.ScanResult{}, err
	}
	state = state.WithAudit(domain.AuditEntry{
		Action: domain.ActionPHIScanCompleted,
		Detail: fmt.Sprintf("scan %s (%s): %d findings, risk %s", scan.ScanID, scanCtx, len(scan.Findings), scan.RiskLevel),
	})
	if err := e.sessions.Save(ctx, state); err != nil {
		return domain.ScanResult{}, err
	}
	return scan, nil
}

// ScanArtifact resolves a stored artifact and scans it. The scan context
// follows the stage: PHI-gated stages scan in export context, everything
// else in upload context.
func (e *Engine) ScanArtifact(ctx context.Context, sessionID, researchID string, stageID int, artifactID string) (domain.ScanResult, error) {
	if strings.TrimSpace(artifactID) == "" {
		return domain.ScanResult{}, &ValidationError{Msg: "artifactId is required"}
	}
	stage, ok := e.catalog.Stage(stageID)
	if !ok {
		return domain.ScanResult{}, ErrStageUnknown
	}
	if e.artifacts == nil {
		return domain.ScanResult{}, ErrArtifactNotFound
	}
	content, err := e.artifacts(ctx, researchID, stageID, artifactID)
	if err != nil {
		return domain.ScanResult{}, err
	}
	scanCtx := domain.ContextUpload
	if stage.PHIGated {
		scanCtx = domain.ContextExport
	}
	return e.ScanContent(ctx, sessionID, content, scanCtx)
}

// RequestOverride decides an override for an existing scan. Policy failures
// (short justification, disallowed role) are recorded rejections, not
// errors; only structurally missing fields are validation errors.
func (e *Engine) RequestOverride(ctx context.Context, sessionID, scanID, justification, approverRole string) (domain.OverrideRecord, error) {
	if strings.TrimSpace(scanID) == "" {
		return domain.OverrideRecord{}, &ValidationError{Msg: "scanId is required"}
	}
	if strings.TrimSpace(justification) == "" {
		return domain.OverrideRecord{}, &ValidationError{Msg: "justification is required"}
	}
	if strings.TrimSpace(approverRole) == "" {
		return domain.OverrideRecord{}, &ValidationError{Msg: "approverRole is required"}
	}
	if _, err := e.scans.GetScan(ctx, scanID); err != nil {
		return domain.OverrideRecord{}, err
	}

	role := domain.ParseRole(approverRole)
	approved := domain.EvaluateOverride(justification, role)
	rec := domain.OverrideRecord{
		AuditID:       "aud_" + uuid.NewString(),
		ScanID:        scanID,
		Justification: justification,
		ApproverRole:  string(role),
		Approved:      approved,
		DecidedAt:     e.now().UTC(),
	}
	if approved {
		exp := e.now().Add(24 * time.Hour).UTC()
		rec.ExpiresAt = &exp
		rec.Conditions = domain.OverrideConditions
	}
	if err := e.overrides.PutOverride(ctx, rec); err != nil {
		return domain.OverrideRecord{}, err
	}

	unlock := e.lock(sessionID)
	defer unlock()
	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return domain.OverrideRecord{}, err
	}
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	state = state.WithAudit(domain.AuditEntry{
		Action: domain.ActionOverrideDecided,
		Detail: fmt.Sprintf("override %s for scan %s %s (role %s)", rec.AuditID, scanID, outcome, role),
	})
	if err := e.sessions.Save(ctx, state); err != nil {
		return domain.OverrideRecord{}, err
	}
	return rec, nil
}

func (e *Engine) State(ctx context.Context, sessionID string) (domain.SessionState, error) {
	return e.sessions.Load(ctx, sessionID)
}

func (e *Engine) AuditLog(ctx context.Context, sessionID string, limit int) ([]domain.AuditEntry, int, error) {
	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}
	entries := state.AuditLog
	total := len(entries)
	if limit > 0 && limit < total {
		entries = entries[total-limit:]
	}
	return entries, total, nil
}

// Reset replaces the session wholesale; the fresh log holds exactly one
// reset marker entry.
func (e *Engine) Reset(ctx context.Context, sessionID string) (domain.SessionState, error) {
	unlock := e.lock(sessionID)
	defer unlock()

	state := domain.NewSession(sessionID).WithAudit(domain.AuditEntry{
		Action: domain.ActionWorkflowReset,
		Detail: "session state cleared",
	})
	if err := e.sessions.Reset(ctx, state); err != nil {
		return domain.SessionState{}, err
	}
	return state, nil
}

func (e *Engine) Catalog() *domain.Catalog { return e.catalog }
