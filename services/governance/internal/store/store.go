package store

import (
	"context"
	"errors"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/domain"
)

var (
	ErrScanNotFound     = errors.New("scan not found")
	ErrOverrideNotFound = errors.New("override not found")
)

// SessionStore persists whole SessionState values. The engine loads a state,
// evaluates pure domain functions over it, and saves the returned copy; the
// store never interprets governance semantics. Save must replace the session
// atomically per key.
type SessionStore interface {
	// Load returns the session, creating a fresh DRAFT session on first
	// reference to an unknown id.
	Load(ctx context.Context, sessionID string) (domain.SessionState, error)
	Save(ctx context.Context, state domain.SessionState) error
	// Reset replaces the session wholesale with the given state (fresh sets
	// plus the single reset marker entry).
	Reset(ctx context.Context, state domain.SessionState) error
}

// ScanStore holds scan results keyed by scan id. Implementations choose a
// retention policy; records older than the override window may be dropped.
type ScanStore interface {
	PutScan(ctx context.Context, scan domain.ScanResult) error
	GetScan(ctx context.Context, scanID string) (domain.ScanResult, error)
}

// OverrideStore holds override records keyed by audit id.
type OverrideStore interface {
	PutOverride(ctx context.Context, rec domain.OverrideRecord) error
	GetOverride(ctx context.Context, auditID string) (domain.OverrideRecord, error)
}
