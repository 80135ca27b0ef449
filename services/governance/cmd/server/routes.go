package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/domain"
	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/evidencehash"
	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/httpx"
	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/services/governance/internal/engine"
	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/services/governance/internal/store"
)

const defaultSession = "default"

func sessionID(r *http.Request) string {
	if id := r.Header.Get("X-Session-Id"); id != "" {
		return id
	}
	return defaultSession
}

func writeEngineError(w http.ResponseWriter, err error) {
	var ve *engine.ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.WriteError(w, 400, "VALIDATION", ve.Msg, nil)
	case errors.Is(err, engine.ErrStageUnknown):
		httpx.WriteError(w, 404, "UNKNOWN_STAGE", err.Error(), nil)
	case errors.Is(err, engine.ErrInsufficientRole):
		httpx.WriteError(w, 403, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, store.ErrScanNotFound):
		httpx.WriteError(w, 404, "SCAN_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, store.ErrOverrideNotFound):
		httpx.WriteError(w, 404, "OVERRIDE_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, engine.ErrArtifactNotFound):
		httpx.WriteError(w, 404, "ARTIFACT_NOT_FOUND", err.Error(), nil)
	default:
		httpx.WriteError(w, 500, "INTERNAL", err.Error(), nil)
	}
}

func orEmpty(xs []int) []int {
	if xs == nil {
		return []int{}
	}
	return xs
}

func newRouter(eng *engine.Engine) chi.Router {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	r.Post("/workflow/execute/{stageId}", func(w http.ResponseWriter, r *http.Request) {
		stageID, err := strconv.Atoi(chi.URLParam(r, "stageId"))
		if err != nil {
			httpx.WriteError(w, 400, "BAD_STAGE_ID", "stageId must be an integer", nil)
			return
		}
		var req struct {
			Content         string `json:"content"`
			ScanID          string `json:"scanId"`
			OverrideAuditID string `json:"overrideAuditId"`
		}
		if r.ContentLength > 0 {
			if err := httpx.ReadJSON(r, &req); err != nil {
				httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
				return
			}
		}
		res, err := eng.ExecuteStage(r.Context(), sessionID(r), stageID, engine.ExecuteRequest{
			Content:         req.Content,
			ScanID:          req.ScanID,
			OverrideAuditID: req.OverrideAuditID,
		})
		if err != nil {
			writeEngineError(w, err)
			return
		}
		if res.Blocked {
			httpx.WriteGateRefusal(w, res.Gates.Reason, res.Gates.RequiresAIApproval, res.Gates.RequiresAttestation)
			return
		}
		out := map[string]any{
			"stageId":       res.Stage.StageID,
			"stageName":     res.Stage.Name,
			"status":        "executed",
			"previousState": res.PreviousState,
			"currentState":  res.CurrentState,
		}
		if res.Scan != nil {
			out["scanId"] = res.Scan.ScanID
		}
		httpx.WriteJSON(w, 200, out)
	})

	r.Post("/ai/approve-stage", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StageID int    `json:"stageId"`
			Role    string `json:"role"`
		}
		if err := httpx.ReadJSON(r, &req); err != nil {
			httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
			return
		}
		sum, err := eng.ApproveStage(r.Context(), sessionID(r), req.StageID, domain.ParseRole(req.Role))
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeApproval(w, sum)
	})

	r.Post("/ai/approve-phase", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Phase string `json:"phase"`
			Role  string `json:"role"`
		}
		if err := httpx.ReadJSON(r, &req); err != nil {
			httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
			return
		}
		sum, err := eng.ApprovePhase(r.Context(), sessionID(r), domain.Phase(req.Phase), domain.ParseRole(req.Role))
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeApproval(w, sum)
	})

	r.Post("/ai/approve-session", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Role string `json:"role"`
		}
		if err := httpx.ReadJSON(r, &req); err != nil {
			httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
			return
		}
		sum, err := eng.ApproveSession(r.Context(), sessionID(r), domain.ParseRole(req.Role))
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeApproval(w, sum)
	})

	r.Post("/attestation/submit", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StageID        int    `json:"stageId"`
			AttestedBy     string `json:"attestedBy"`
			ChecklistItems int    `json:"checklistItems"`
		}
		if err := httpx.ReadJSON(r, &req); err != nil {
			httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
			return
		}
		rec, err := eng.SubmitAttestation(r.Context(), sessionID(r), req.StageID, req.AttestedBy, req.ChecklistItems)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		httpx.WriteJSON(w, 200, map[string]any{
			"stageId":    rec.StageID,
			"attestedAt": rec.AttestedAt.Format(time.RFC3339),
			"attestedBy": rec.AttestedBy,
		})
	})

	r.Get("/lifecycle/state", func(w http.ResponseWriter, r *http.Request) {
		state, err := eng.State(r.Context(), sessionID(r))
		if err != nil {
			writeEngineError(w, err)
			return
		}
		httpx.WriteJSON(w, 200, map[string]any{
			"currentState":     state.CurrentState,
			"completedStages":  orEmpty(state.CompletedStages),
			"approvedAIStages": orEmpty(state.ApprovedAIStages),
			"attestedGates":    orEmpty(state.AttestedGates),
			"auditLogCount":    len(state.AuditLog),
		})
	})

	r.Get("/lifecycle/audit-log", func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if q := r.URL.Query().Get("limit"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil || n < 0 {
				httpx.WriteError(w, 400, "BAD_LIMIT", "limit must be a non-negative integer", nil)
				return
			}
			limit = n
		}
		entries, total, err := eng.AuditLog(r.Context(), sessionID(r), limit)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		if entries == nil {
			entries = []domain.AuditEntry{}
		}
		hashes := make([]string, 0, len(entries))
		for _, e := range entries {
			h, _, _ := evidencehash.CanonicalSHA256(e)
			hashes = append(hashes, h)
		}
		httpx.WriteJSON(w, 200, map[string]any{
			"entries":    entries,
			"total":      total,
			"exportHash": evidencehash.AuditExportHash(sessionID(r), hashes),
		})
	})

	r.Post("/phi/scan", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Content    string `json:"content"`
			Context    string `json:"context"`
			StageID    int    `json:"stageId"`
			ArtifactID string `json:"artifactId"`
			ResearchID string `json:"researchId"`
		}
		if err := httpx.ReadJSON(r, &req); err != nil {
			httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
			return
		}
		var scan domain.ScanResult
		var err error
		if req.ArtifactID != "" {
			scan, err = eng.ScanArtifact(r.Context(), sessionID(r), req.ResearchID, req.StageID, req.ArtifactID)
		} else {
			scan, err = eng.ScanContent(r.Context(), sessionID(r), req.Content, domain.ScanContext(req.Context))
		}
		if err != nil {
			writeEngineError(w, err)
			return
		}
		detected := scan.Findings
		if detected == nil {
			detected = []domain.PHIFinding{}
		}
		httpx.WriteJSON(w, 200, map[string]any{
			"scanId":           scan.ScanID,
			"riskLevel":        scan.RiskLevel,
			"requiresOverride": scan.RequiresOverride,
			"detected":         detected,
			"summary": map[string]any{
				"contentLength":  scan.ContentLength,
				"findingCount":   len(scan.Findings),
				"categoryCounts": scan.CategoryCounts,
			},
		})
	})

	r.Post("/phi/override", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ScanID        string `json:"scanId"`
			Justification string `json:"justification"`
			ApproverRole  string `json:"approverRole"`
		}
		if err := httpx.ReadJSON(r, &req); err != nil {
			httpx.WriteError(w, 400, "BAD_JSON", err.Error(), nil)
			return
		}
		rec, err := eng.RequestOverride(r.Context(), sessionID(r), req.ScanID, req.Justification, req.ApproverRole)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		out := map[string]any{
			"approved": rec.Approved,
			"auditId":  rec.AuditID,
		}
		if rec.Approved {
			out["expiresAt"] = rec.ExpiresAt.Format(time.RFC3339)
			out["conditions"] = rec.Conditions
		}
		httpx.WriteJSON(w, 200, out)
	})

	r.Post("/workflow/reset", func(w http.ResponseWriter, r *http.Request) {
		state, err := eng.Reset(r.Context(), sessionID(r))
		if err != nil {
			writeEngineError(w, err)
			return
		}
		httpx.WriteJSON(w, 200, map[string]any{
			"currentState":  state.CurrentState,
			"auditLogCount": len(state.AuditLog),
		})
	})

	return r
}

func writeApproval(w http.ResponseWriter, sum engine.ApprovalSummary) {
	httpx.WriteJSON(w, 200, map[string]any{
		"approvedStages": sum.ApprovedStages,
		"approvedCount":  sum.ApprovedCount,
		"pendingCount":   sum.PendingCount,
	})
}
